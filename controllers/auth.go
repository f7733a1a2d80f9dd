package controllers

import (
	"context"
	"net/http"
	"time"

	"pawcare-backend/services"
	"pawcare-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthAPI interface {
	SendEmailOtp(ctx context.Context, email, userType string) error
	SendSmsOtp(ctx context.Context, phone, userType string) error
	VerifyEmailOtp(ctx context.Context, email, userType, code string) (*services.LoginResult, error)
	VerifySmsOtp(ctx context.Context, phone, userType, code string) (*services.LoginResult, error)
	LoginAdmin(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, session utils.Session) error
}

type SendEmailOtpInput struct {
	Email    string `json:"email" binding:"required,email"`
	UserType string `json:"user_type" binding:"required,oneof=customer groomer"`
}

type VerifyEmailOtpInput struct {
	Email    string `json:"email" binding:"required,email"`
	UserType string `json:"user_type" binding:"required,oneof=customer groomer"`
	Otp      string `json:"otp" binding:"required"`
}

type SendSmsOtpInput struct {
	Phone    string `json:"phone" binding:"required"`
	UserType string `json:"user_type" binding:"required,oneof=customer groomer"`
}

type VerifySmsOtpInput struct {
	Phone    string `json:"phone" binding:"required"`
	UserType string `json:"user_type" binding:"required,oneof=customer groomer"`
	Otp      string `json:"otp" binding:"required"`
}

type AdminLoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth     AuthAPI
	TokenTTL time.Duration
}

// SendEmailOtp mails a login code to a customer or groomer
func (ac *AuthController) SendEmailOtp(c *gin.Context) {
	var input SendEmailOtpInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ac.Auth.SendEmailOtp(c.Request.Context(), input.Email, input.UserType); err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "OTP sent successfully", nil)
}

// VerifyEmailOtp checks an emailed code and starts a session
func (ac *AuthController) VerifyEmailOtp(c *gin.Context) {
	var input VerifyEmailOtpInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := ac.Auth.VerifyEmailOtp(c.Request.Context(), input.Email, input.UserType, input.Otp)
	if err != nil {
		respondError(c, err)
		return
	}
	ac.loggedIn(c, res)
}

// SendSmsOtp texts a login code to a customer or groomer
func (ac *AuthController) SendSmsOtp(c *gin.Context) {
	var input SendSmsOtpInput
	if !bindJSON(c, &input) {
		return
	}
	if err := ac.Auth.SendSmsOtp(c.Request.Context(), input.Phone, input.UserType); err != nil {
		respondError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "OTP sent successfully", nil)
}

// VerifySmsOtp checks a texted code and starts a session
func (ac *AuthController) VerifySmsOtp(c *gin.Context) {
	var input VerifySmsOtpInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := ac.Auth.VerifySmsOtp(c.Request.Context(), input.Phone, input.UserType, input.Otp)
	if err != nil {
		respondError(c, err)
		return
	}
	ac.loggedIn(c, res)
}

// LoginAdmin authenticates the admin by email and password
func (ac *AuthController) LoginAdmin(c *gin.Context) {
	var input AdminLoginInput
	if !bindJSON(c, &input) {
		return
	}
	res, err := ac.Auth.LoginAdmin(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	ac.loggedIn(c, res)
}

// Logout revokes every token of the caller
func (ac *AuthController) Logout(c *gin.Context) {
	s, ok := session(c)
	if !ok {
		return
	}
	if err := ac.Auth.Logout(c.Request.Context(), s); err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie("token", "", -1, "/", "", true, true)
	utils.RespondWithData(c, http.StatusOK, "Logged out successfully", nil)
}

func (ac *AuthController) loggedIn(c *gin.Context, res *services.LoginResult) {
	c.SetCookie("token", res.Token, int(ac.TokenTTL.Seconds()), "/", "", true, true)
	utils.RespondWithData(c, http.StatusOK, "Login successful", res)
}
