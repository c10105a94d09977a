package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/nerdgeek/tienda/internal/config"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/internal/notify"
	"github.com/nerdgeek/tienda/internal/repository"
	"github.com/nerdgeek/tienda/internal/utils"
	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrInvalidCaptcha        = errors.New("incorrect captcha answer")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountNotActive      = errors.New("account not activated")
	ErrInvalidActivationLink = errors.New("activation link is invalid or has expired")
	ErrActivationEmailFailed = errors.New("failed to send activation email")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// captchaAnswer is the expected answer to the fixed "¿Cuánto es 4 + 3?"
// human-verification question on the registration form.
const captchaAnswer = 7

type AuthService struct {
	userRepo *repository.UserRepository
	email    notify.EmailSender

	jwtSecret     string
	jwtExpiration time.Duration

	activationSecret string
	activationTTL    time.Duration

	baseURL     string
	environment string
}

func NewAuthService(userRepo *repository.UserRepository, email notify.EmailSender, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		email:            email,
		jwtSecret:        cfg.JWTSecret,
		jwtExpiration:    cfg.JWTExpiry,
		activationSecret: cfg.ActivationSecret,
		activationTTL:    cfg.ActivationTTL,
		baseURL:          cfg.BaseURL,
		environment:      cfg.Environment,
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

// Register creates an inactive account and sends the activation email.
// If the email cannot be sent, the just-created account is deleted again so
// the address can retry later.
func (s *AuthService) Register(username, email, password string, captcha int) (*models.User, error) {
	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
		zap.String("email", email),
	)

	if captcha != captchaAnswer {
		logger.Log.Warn("Registration rejected: wrong captcha answer",
			zap.String("email", email),
		)
		return nil, ErrInvalidCaptcha
	}

	if err := s.validateRegisterInput(username, email, password); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrEmailAlreadyExists
	}

	existingUser, err = s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrUsernameAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Active:       false,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.sendActivationEmail(user); err != nil {
		// Compensate: the account must not linger unverifiable
		if delErr := s.userRepo.DeleteUser(user.ID); delErr != nil {
			logger.Log.Error("Failed to delete user after email failure",
				zap.String("user_id", user.ID.String()),
				zap.Error(delErr),
			)
		}
		logger.Log.Error("Activation email failed, registration rolled back",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrActivationEmailFailed, err)
	}

	logger.Log.Info("User registered, awaiting activation",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
		zap.String("email", email),
	)

	return user, nil
}

func (s *AuthService) sendActivationEmail(user *models.User) error {
	encodedID := utils.EncodeUserID(user.ID)
	token := utils.GenerateActivationToken(user, s.activationSecret, s.activationTTL)
	link := fmt.Sprintf("%s/activate/%s/%s", s.baseURL, encodedID, token)

	subject := "Activa tu cuenta en NerdGeek"
	body := fmt.Sprintf(
		"Hola %s,\n\nGracias por registrarte en NerdGeek. Confirma tu correo electrónico para activar tu cuenta:\n%s\n\nSi no creaste esta cuenta puedes ignorar este correo.",
		user.Username, link,
	)

	return s.email.Send(user.Email, subject, body)
}

// Activate verifies an emailed activation link and starts a session for the
// now-active user. All failure modes collapse into the same generic error so
// the link reveals nothing about why it was rejected.
func (s *AuthService) Activate(encodedUID, token string) (*models.User, string, error) {
	uid, err := utils.DecodeUserID(encodedUID)
	if err != nil {
		logger.Log.Warn("Activation with malformed user id", zap.Error(err))
		return nil, "", ErrInvalidActivationLink
	}

	user, err := s.userRepo.GetUserByID(uid)
	if err != nil {
		logger.Log.Error("Failed to load user for activation",
			zap.String("user_id", uid.String()),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidActivationLink
	}

	if !utils.ValidateActivationToken(user, s.activationSecret, token) {
		logger.Log.Warn("Activation token rejected",
			zap.String("user_id", uid.String()),
		)
		return nil, "", ErrInvalidActivationLink
	}

	user.Active = true
	if err := s.userRepo.UpdateUser(user); err != nil {
		logger.Log.Error("Failed to activate user",
			zap.String("user_id", uid.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	sessionToken, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate session token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User activated",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return user, sessionToken, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("email", email),
		)
		return nil, "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
		)
		return nil, "", ErrInvalidCredentials
	}

	// Unverified accounts cannot authenticate
	if !user.Active {
		logger.Log.Warn("Login refused: account not activated",
			zap.String("email", email),
		)
		return nil, "", ErrAccountNotActive
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate session token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return user, token, nil
}

func (s *AuthService) validateRegisterInput(username, email, password string) error {
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(username) > 50 {
		return errors.New("username must be at most 50 characters")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	if len(email) > 100 {
		return errors.New("email too long")
	}

	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return errors.New("password too long")
	}

	return nil
}
