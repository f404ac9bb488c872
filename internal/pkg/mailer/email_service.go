package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendOTP(toEmail, otp string) error
	SendResetToken(toEmail, token string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendOTP(toEmail, otp string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "[AI 메모장] 이메일 인증번호")

	body := fmt.Sprintf(`
		<div style="font-family: 'Apple SD Gothic Neo', Arial, sans-serif; padding: 20px; color: #333;">
			<h2>AI 메모장에 오신 것을 환영합니다!</h2>
			<p>이메일 인증번호:</p>
			<h1 style="color: #4CAF50; letter-spacing: 5px;">%s</h1>
			<p>인증번호는 15분 후에 만료됩니다.</p>
			<p>본인이 요청하지 않았다면 이 메일을 무시해주세요.</p>
		</div>
	`, otp)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send OTP to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] OTP sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendResetToken(toEmail, token string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "[AI 메모장] 비밀번호 재설정")

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)

	body := fmt.Sprintf(`
		<div style="font-family: 'Apple SD Gothic Neo', Arial, sans-serif; padding: 20px; color: #333;">
			<h2>비밀번호 재설정 요청</h2>
			<p>아래 버튼을 눌러 비밀번호를 재설정해주세요:</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">비밀번호 재설정</a>
			<p>또는 아래 링크를 복사해주세요:</p>
			<p>%s</p>
			<p>링크는 1시간 후에 만료됩니다.</p>
			<p>본인이 요청하지 않았다면 이 메일을 무시해주세요.</p>
		</div>
	`, resetLink, resetLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send reset link to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Reset link sent to %s\n", toEmail)
	return nil
}
