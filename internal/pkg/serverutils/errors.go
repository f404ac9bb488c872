package serverutils

import "github.com/gofiber/fiber/v2"

// AppError carries an HTTP status and a user-facing (Korean) message.
// Services return these; ErrorHandlerMiddleware maps them to the envelope.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func WrapAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Shared sentinel errors with localized messages.
var (
	ErrInvalidCredentials = NewAppError(fiber.StatusUnauthorized, "이메일 또는 비밀번호가 올바르지 않습니다")
	ErrEmailTaken         = NewAppError(fiber.StatusConflict, "이미 가입된 이메일입니다")
	ErrEmailNotVerified   = NewAppError(fiber.StatusForbidden, "이메일 인증이 필요합니다. 받은 편지함을 확인해주세요")
	ErrAccountBlocked     = NewAppError(fiber.StatusForbidden, "차단된 계정입니다")
	ErrInvalidOTP         = NewAppError(fiber.StatusBadRequest, "인증번호가 올바르지 않습니다")
	ErrExpiredOTP         = NewAppError(fiber.StatusBadRequest, "인증번호가 만료되었습니다")
	ErrInvalidResetToken  = NewAppError(fiber.StatusBadRequest, "유효하지 않거나 만료된 링크입니다")
	ErrResetTokenUsed     = NewAppError(fiber.StatusBadRequest, "이미 사용된 비밀번호 재설정 링크입니다")
	ErrWrongPassword      = NewAppError(fiber.StatusBadRequest, "현재 비밀번호가 일치하지 않습니다")
	ErrOAuthOnlyAccount   = NewAppError(fiber.StatusBadRequest, "소셜 로그인으로 가입된 계정입니다")

	ErrMemoNotFound    = NewAppError(fiber.StatusNotFound, "메모를 찾을 수 없습니다")
	ErrMemoNotInTrash  = NewAppError(fiber.StatusBadRequest, "휴지통에 없는 메모입니다")
	ErrTitleRequired   = NewAppError(fiber.StatusBadRequest, "제목을 입력해주세요")
	ErrTitleTooLong    = NewAppError(fiber.StatusBadRequest, "제목은 200자 이내로 입력해주세요")
	ErrContentRequired = NewAppError(fiber.StatusBadRequest, "내용을 입력해주세요")

	ErrSummaryNotFound = NewAppError(fiber.StatusNotFound, "요약이 없습니다. 먼저 요약을 생성해주세요")
	ErrAIGeneration    = NewAppError(fiber.StatusBadGateway, "AI 생성에 실패했습니다. 잠시 후 다시 시도해주세요")
	ErrAIEmptyResult   = NewAppError(fiber.StatusBadGateway, "AI가 빈 응답을 반환했습니다")
)
