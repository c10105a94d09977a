package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/nerdgeek/tienda/internal/config"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/internal/repository"
	"github.com/nerdgeek/tienda/internal/service"
	"github.com/nerdgeek/tienda/internal/testutil"
	"github.com/nerdgeek/tienda/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthServiceIntegrationTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	userRepo    *repository.UserRepository
	emailSender *testutil.FakeEmailSender
	authService *service.AuthService
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-jwt-secret",
		JWTExpiry:        time.Hour,
		ActivationSecret: "test-activation-secret",
		ActivationTTL:    time.Hour,
		BaseURL:          "http://localhost:8080",
		Environment:      "test",
	}
}

func (s *AuthServiceIntegrationTestSuite) SetupSuite() {
	logger.Init(false)
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.userRepo = repository.NewUserRepository(s.testDB.DB)
}

func (s *AuthServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *AuthServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.emailSender = &testutil.FakeEmailSender{}
	s.authService = service.NewAuthService(s.userRepo, s.emailSender, testAuthConfig())
}

func (s *AuthServiceIntegrationTestSuite) userCount() int64 {
	var count int64
	s.testDB.DB.Model(&models.User{}).Count(&count)
	return count
}

// extractActivationParams pulls the encoded uid and token out of the
// activation link in a sent email body.
func (s *AuthServiceIntegrationTestSuite) extractActivationParams(body string) (string, string) {
	idx := strings.Index(body, "/activate/")
	require.GreaterOrEqual(s.T(), idx, 0, "email body must contain an activation link")

	rest := body[idx+len("/activate/"):]
	rest = strings.Fields(rest)[0]
	parts := strings.SplitN(rest, "/", 2)
	require.Len(s.T(), parts, 2, "activation link must carry uid and token")

	return parts[0], parts[1]
}

func (s *AuthServiceIntegrationTestSuite) TestRegisterWrongCaptcha() {
	user, err := s.authService.Register("cliente", "cliente@example.com", "Test123456", 8)

	assert.ErrorIs(s.T(), err, service.ErrInvalidCaptcha)
	assert.Nil(s.T(), user)
	assert.Equal(s.T(), int64(0), s.userCount(), "no user row may be created on captcha failure")
	assert.Zero(s.T(), s.emailSender.SentCount())
}

func (s *AuthServiceIntegrationTestSuite) TestRegisterDuplicateEmail() {
	existing, err := testutil.CreateTestUser("otro", "cliente@example.com", "Test123456", true, false)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.testDB.DB.Create(existing).Error)

	user, err := s.authService.Register("cliente", "cliente@example.com", "Test123456", 7)

	assert.ErrorIs(s.T(), err, service.ErrEmailAlreadyExists)
	assert.Nil(s.T(), user)
	assert.Equal(s.T(), int64(1), s.userCount(), "duplicate registration must not add a row")
}

func (s *AuthServiceIntegrationTestSuite) TestRegisterCreatesInactiveUser() {
	user, err := s.authService.Register("cliente", "cliente@example.com", "Test123456", 7)

	require.NoError(s.T(), err)
	require.NotNil(s.T(), user)
	assert.False(s.T(), user.Active, "account must stay inactive until activation")
	assert.False(s.T(), user.Superuser)

	require.Equal(s.T(), 1, s.emailSender.SentCount())
	sent := s.emailSender.Sent[0]
	assert.Equal(s.T(), "cliente@example.com", sent.To)
	assert.Equal(s.T(), "Activa tu cuenta en NerdGeek", sent.Subject)
	assert.Contains(s.T(), sent.Body, "/activate/")

	stored, err := s.userRepo.GetUserByEmail("cliente@example.com")
	require.NoError(s.T(), err)
	require.NotNil(s.T(), stored)
	assert.False(s.T(), stored.Active)
}

func (s *AuthServiceIntegrationTestSuite) TestRegisterEmailFailureDeletesUser() {
	s.emailSender.Err = assert.AnError

	user, err := s.authService.Register("cliente", "cliente@example.com", "Test123456", 7)

	assert.ErrorIs(s.T(), err, service.ErrActivationEmailFailed)
	assert.Nil(s.T(), user)
	assert.Equal(s.T(), int64(0), s.userCount(), "registration must be rolled back when the email cannot be sent")
}

func (s *AuthServiceIntegrationTestSuite) TestActivateFlow() {
	registered, err := s.authService.Register("cliente", "cliente@example.com", "Test123456", 7)
	require.NoError(s.T(), err)

	uid, token := s.extractActivationParams(s.emailSender.Sent[0].Body)

	user, sessionToken, err := s.authService.Activate(uid, token)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), registered.ID, user.ID)
	assert.True(s.T(), user.Active)
	assert.NotEmpty(s.T(), sessionToken, "activation must start a session")

	stored, err := s.userRepo.GetUserByID(registered.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), stored.Active)
}

func (s *AuthServiceIntegrationTestSuite) TestActivateTamperedToken() {
	registered, err := s.authService.Register("cliente", "cliente@example.com", "Test123456", 7)
	require.NoError(s.T(), err)

	uid, token := s.extractActivationParams(s.emailSender.Sent[0].Body)

	_, _, err = s.authService.Activate(uid, token+"a")
	assert.ErrorIs(s.T(), err, service.ErrInvalidActivationLink)

	_, _, err = s.authService.Activate(uid, "9999999999-deadbeef")
	assert.ErrorIs(s.T(), err, service.ErrInvalidActivationLink)

	stored, err := s.userRepo.GetUserByID(registered.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), stored.Active, "tampered token must never activate the account")
}

func (s *AuthServiceIntegrationTestSuite) TestActivateMalformedLink() {
	_, _, err := s.authService.Activate("not-base64!!!", "whatever")
	assert.ErrorIs(s.T(), err, service.ErrInvalidActivationLink)

	// Well-formed uid for a user that does not exist
	_, _, err = s.authService.Activate("YjU0OWE0NzEtMzFjNy00MmM0LWI0ZTUtNWQyYjY2YmM2NzE0", "whatever")
	assert.ErrorIs(s.T(), err, service.ErrInvalidActivationLink)
}

func (s *AuthServiceIntegrationTestSuite) TestActivationLinkSingleUse() {
	_, err := s.authService.Register("cliente", "cliente@example.com", "Test123456", 7)
	require.NoError(s.T(), err)

	uid, token := s.extractActivationParams(s.emailSender.Sent[0].Body)

	_, _, err = s.authService.Activate(uid, token)
	require.NoError(s.T(), err)

	// The active flag participates in the token MAC, so the same link is
	// dead after activation
	_, _, err = s.authService.Activate(uid, token)
	assert.ErrorIs(s.T(), err, service.ErrInvalidActivationLink)
}

func (s *AuthServiceIntegrationTestSuite) TestLoginInactiveAccount() {
	inactive, err := testutil.CreateTestUser("cliente", "cliente@example.com", "Test123456", false, false)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.testDB.DB.Create(inactive).Error)

	_, _, err = s.authService.Login("cliente@example.com", "Test123456")

	assert.ErrorIs(s.T(), err, service.ErrAccountNotActive)
}

func (s *AuthServiceIntegrationTestSuite) TestLoginWrongPassword() {
	user, err := testutil.DefaultTestUser()
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.testDB.DB.Create(user).Error)

	_, _, err = s.authService.Login(user.Email, "WrongPassword1")

	assert.ErrorIs(s.T(), err, service.ErrInvalidCredentials)
}

func (s *AuthServiceIntegrationTestSuite) TestLoginSuccess() {
	user, err := testutil.DefaultTestUser()
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.testDB.DB.Create(user).Error)

	loggedIn, token, err := s.authService.Login(user.Email, "Test123456")

	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, loggedIn.ID)
	assert.NotEmpty(s.T(), token)
}

func TestAuthServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceIntegrationTestSuite))
}
