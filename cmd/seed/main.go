package main

import (
	"log"
	"os"

	"ai-memo-be/internal/model"
	"ai-memo-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding notification types...")

	types := []model.NotificationType{
		{
			Code:        "USER_LOGIN",
			DisplayName: "로그인 알림",
			Template:    "{device}에서 로그인했습니다 ({time})",
			TargetType:  "SELF",
			IsActive:    true,
		},
		{
			Code:        "MEMO_CREATED",
			DisplayName: "메모 작성",
			Template:    "새 메모를 작성했습니다: \"{title}\"",
			TargetType:  "SELF",
			IsActive:    true,
		},
		{
			Code:        "MEMO_TRASHED",
			DisplayName: "메모 삭제",
			Template:    "메모를 휴지통으로 이동했습니다: \"{title}\"",
			TargetType:  "SELF",
			IsActive:    true,
		},
		{
			Code:        "SUMMARY_READY",
			DisplayName: "요약 완료",
			Template:    "\"{title}\" 메모의 요약이 준비되었습니다",
			TargetType:  "SELF",
			IsActive:    true,
		},
		{
			Code:        "SYSTEM_BROADCAST",
			DisplayName: "공지사항",
			Template:    "{title}: {message}",
			TargetType:  "BROADCAST",
			IsActive:    true,
		},
	}

	// Upsert by code so reruns refresh templates instead of duplicating
	for _, t := range types {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "template", "target_type", "is_active"}),
		}).Create(&t).Error

		if err != nil {
			color.Red("  ✗ %s: %v", t.Code, err)
			continue
		}
		color.Green("  ✓ %s (%s)", t.Code, t.TargetType)
	}

	color.Cyan("Done.")
}
