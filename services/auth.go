package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pawcare-backend/models"
	"pawcare-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AdminSubject is the token subject of the single configured admin.
const AdminSubject = "admin"

type AccountStore interface {
	FindOrCreateUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindOrCreateUserByPhone(ctx context.Context, phone string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByPhone(ctx context.Context, phone string) (*models.User, error)
	FindGroomerByEmail(ctx context.Context, email string) (*models.Groomer, error)
	FindGroomerByPhone(ctx context.Context, phone string) (*models.Groomer, error)
	EnsureCustomer(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	BumpUserTokenVersion(ctx context.Context, userID uuid.UUID, login bool) (int, error)
	BumpGroomerTokenVersion(ctx context.Context, groomerID uuid.UUID) (int, error)
	UserTokenVersion(ctx context.Context, userID uuid.UUID) (int, error)
	GroomerTokenVersion(ctx context.Context, groomerID uuid.UUID) (int, error)
}

// AdminVersionStore persists the admin token version across restarts and instances.
type AdminVersionStore interface {
	IncrAdminVersion(ctx context.Context) (int, error)
	AdminVersion(ctx context.Context) (int, error)
}

type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	OtpLength         int
	AdminEmail        string
	AdminPasswordHash string
}

type AuthService struct {
	accounts AccountStore
	admin    AdminVersionStore
	otp      *OtpService
	mail     Mailer
	sms      SMSSender
	cfg      AuthConfig
	log      logrus.FieldLogger
}

func NewAuthService(accounts AccountStore, admin AdminVersionStore, otp *OtpService, mail Mailer, sms SMSSender, cfg AuthConfig, log logrus.FieldLogger) *AuthService {
	if cfg.OtpLength <= 0 {
		cfg.OtpLength = otpDigits
	}
	return &AuthService{accounts: accounts, admin: admin, otp: otp, mail: mail, sms: sms, cfg: cfg, log: log}
}

type LoginResult struct {
	Token    string           `json:"token"`
	Role     string           `json:"role"`
	Customer *models.Customer `json:"customer,omitempty"`
	Groomer  *models.Groomer  `json:"groomer,omitempty"`
	User     *models.User     `json:"user,omitempty"`
}

// identity is whoever an OTP is being sent to or verified for.
type identity struct {
	userID  uuid.UUID
	user    *models.User
	groomer *models.Groomer
}

func checkUserType(userType string) error {
	if userType != models.RoleCustomer && userType != models.RoleGroomer {
		return invalid("User type must be customer or groomer")
	}
	return nil
}

func (s *AuthService) groomerIdentity(g *models.Groomer, err error) (identity, error) {
	if err != nil {
		if isNotFound(err) {
			return identity{}, notFound("Groomer not found")
		}
		return identity{}, err
	}
	if !g.IsActive {
		return identity{}, notFound("Groomer not found")
	}
	return identity{userID: g.ID, groomer: g}, nil
}

func (s *AuthService) SendEmailOtp(ctx context.Context, email, userType string) error {
	email = utils.NormalizeEmail(email)
	if !utils.ValidateEmail(email) {
		return invalid("Invalid email address")
	}
	if err := checkUserType(userType); err != nil {
		return err
	}

	var id identity
	if userType == models.RoleGroomer {
		g, err := s.accounts.FindGroomerByEmail(ctx, email)
		if id, err = s.groomerIdentity(g, err); err != nil {
			return err
		}
	} else {
		u, err := s.accounts.FindOrCreateUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if !u.IsActive {
			return forbidden("Account is disabled")
		}
		id = identity{userID: u.ID, user: u}
	}

	code, err := s.issue(ctx, id.userID, userType, models.OtpChannelEmail)
	if err != nil {
		return err
	}

	text := fmt.Sprintf("Your PawCare login code is %s. It expires in %d minutes.", code, int(s.otp.cfg.TTL.Minutes()))
	html := fmt.Sprintf("<p>Your PawCare login code is <b>%s</b>.</p><p>It expires in %d minutes.</p>", code, int(s.otp.cfg.TTL.Minutes()))
	if err := s.mail.SendMail(ctx, email, "Your login code", text, html); err != nil {
		s.log.WithError(err).WithField("user_id", id.userID).Error("send email otp")
		return internal("Failed to send OTP")
	}
	return nil
}

func (s *AuthService) SendSmsOtp(ctx context.Context, phone, userType string) error {
	phone = utils.NormalizePhone(phone)
	if !utils.ValidatePhone(phone) {
		return invalid("Invalid phone number format")
	}
	if err := checkUserType(userType); err != nil {
		return err
	}

	var id identity
	if userType == models.RoleGroomer {
		g, err := s.accounts.FindGroomerByPhone(ctx, phone)
		if id, err = s.groomerIdentity(g, err); err != nil {
			return err
		}
	} else {
		u, err := s.accounts.FindOrCreateUserByPhone(ctx, phone)
		if err != nil {
			return err
		}
		if !u.IsActive {
			return forbidden("Account is disabled")
		}
		id = identity{userID: u.ID, user: u}
	}

	code, err := s.issue(ctx, id.userID, userType, models.OtpChannelSMS)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("%s is your PawCare login code. Valid for %d minutes.", code, int(s.otp.cfg.TTL.Minutes()))
	if err := s.sms.SendSMS(ctx, phone, body); err != nil {
		s.log.WithError(err).WithField("user_id", id.userID).Error("send sms otp")
		return internal("Failed to send OTP")
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, userID uuid.UUID, userType, channel string) (string, error) {
	key := models.OtpKey{UserID: userID, UserType: userType, Purpose: models.OtpPurposeLogin, Channel: channel}
	ok, err := s.otp.CanSend(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", conflict("Too many OTP requests, please try again later")
	}
	return s.otp.Issue(ctx, key, s.cfg.OtpLength)
}

func (s *AuthService) VerifyEmailOtp(ctx context.Context, email, userType, code string) (*LoginResult, error) {
	email = utils.NormalizeEmail(email)
	if err := checkUserType(userType); err != nil {
		return nil, err
	}
	var id identity
	if userType == models.RoleGroomer {
		g, err := s.accounts.FindGroomerByEmail(ctx, email)
		if id, err = s.groomerIdentity(g, err); err != nil {
			return nil, s.hideMissing(err)
		}
	} else {
		u, err := s.accounts.FindUserByEmail(ctx, email)
		if err != nil {
			return nil, s.hideMissing(err)
		}
		id = identity{userID: u.ID, user: u}
	}
	return s.verify(ctx, id, userType, models.OtpChannelEmail, code)
}

func (s *AuthService) VerifySmsOtp(ctx context.Context, phone, userType, code string) (*LoginResult, error) {
	phone = utils.NormalizePhone(phone)
	if err := checkUserType(userType); err != nil {
		return nil, err
	}
	var id identity
	if userType == models.RoleGroomer {
		g, err := s.accounts.FindGroomerByPhone(ctx, phone)
		if id, err = s.groomerIdentity(g, err); err != nil {
			return nil, s.hideMissing(err)
		}
	} else {
		u, err := s.accounts.FindUserByPhone(ctx, phone)
		if err != nil {
			return nil, s.hideMissing(err)
		}
		id = identity{userID: u.ID, user: u}
	}
	return s.verify(ctx, id, userType, models.OtpChannelSMS, code)
}

// hideMissing answers unknown identities the same way as a wrong code.
func (s *AuthService) hideMissing(err error) error {
	if isNotFound(err) || IsKind(err, KindNotFound) {
		return invalid("Invalid or expired OTP")
	}
	return err
}

func (s *AuthService) verify(ctx context.Context, id identity, userType, channel, code string) (*LoginResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("OTP is required")
	}
	key := models.OtpKey{UserID: id.userID, UserType: userType, Purpose: models.OtpPurposeLogin, Channel: channel}
	if err := s.otp.Verify(ctx, key, code); err != nil {
		return nil, err
	}

	if userType == models.RoleGroomer {
		version, err := s.accounts.BumpGroomerTokenVersion(ctx, id.groomer.ID)
		if err != nil {
			return nil, err
		}
		token, err := utils.GenerateToken(s.cfg.JWTSecret, s.cfg.TokenTTL, utils.Session{
			UserID:       id.groomer.ID.String(),
			Role:         models.RoleGroomer,
			TokenVersion: version,
		})
		if err != nil {
			return nil, fmt.Errorf("sign token: %w", err)
		}
		s.log.WithField("groomer_id", id.groomer.ID).Info("groomer logged in")
		return &LoginResult{Token: token, Role: models.RoleGroomer, Groomer: id.groomer}, nil
	}

	customer, err := s.accounts.EnsureCustomer(ctx, id.user.ID)
	if err != nil {
		return nil, err
	}
	version, err := s.accounts.BumpUserTokenVersion(ctx, id.user.ID, true)
	if err != nil {
		return nil, err
	}
	token, err := utils.GenerateToken(s.cfg.JWTSecret, s.cfg.TokenTTL, utils.Session{
		UserID:       id.user.ID.String(),
		CustomerID:   customer.ID.String(),
		Role:         models.RoleCustomer,
		TokenVersion: version,
	})
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	id.user.CustomerID = &customer.ID
	id.user.TokenVersion = version
	s.log.WithFields(logrus.Fields{"user_id": id.user.ID, "customer_id": customer.ID}).Info("customer logged in")
	return &LoginResult{Token: token, Role: models.RoleCustomer, Customer: customer, User: id.user}, nil
}

// LoginAdmin checks the configured admin credentials. Each login bumps the
// admin token version, so only the newest admin token stays valid.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*LoginResult, error) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" {
		return nil, unauthorized("Invalid email or password")
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.cfg.AdminEmail) || !utils.CheckPasswordHash(password, s.cfg.AdminPasswordHash) {
		return nil, unauthorized("Invalid email or password")
	}
	version, err := s.admin.IncrAdminVersion(ctx)
	if err != nil {
		return nil, err
	}
	token, err := utils.GenerateToken(s.cfg.JWTSecret, s.cfg.TokenTTL, utils.Session{
		UserID:       AdminSubject,
		Role:         models.RoleAdmin,
		TokenVersion: version,
	})
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	s.log.Info("admin logged in")
	return &LoginResult{Token: token, Role: models.RoleAdmin}, nil
}

// Logout revokes every token issued to the caller's identity.
func (s *AuthService) Logout(ctx context.Context, session utils.Session) error {
	var err error
	switch session.Role {
	case models.RoleAdmin:
		_, err = s.admin.IncrAdminVersion(ctx)
	case models.RoleGroomer:
		var id uuid.UUID
		if id, err = uuid.Parse(session.UserID); err == nil {
			_, err = s.accounts.BumpGroomerTokenVersion(ctx, id)
		}
	case models.RoleCustomer:
		var id uuid.UUID
		if id, err = uuid.Parse(session.UserID); err == nil {
			_, err = s.accounts.BumpUserTokenVersion(ctx, id, false)
		}
	default:
		return unauthorized("Invalid token")
	}
	return err
}

// CurrentTokenVersion implements utils.TokenVersionSource.
func (s *AuthService) CurrentTokenVersion(ctx context.Context, role, subject string) (int, error) {
	if role == models.RoleAdmin {
		if subject != AdminSubject {
			return 0, fmt.Errorf("unknown admin subject %q", subject)
		}
		return s.admin.AdminVersion(ctx)
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return 0, fmt.Errorf("parse subject: %w", err)
	}
	switch role {
	case models.RoleGroomer:
		return s.accounts.GroomerTokenVersion(ctx, id)
	case models.RoleCustomer:
		return s.accounts.UserTokenVersion(ctx, id)
	}
	return 0, fmt.Errorf("unknown role %q", role)
}
