package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/chuo/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		FilterUsersByRole(ctx context.Context, role Role) ([]User, error)
		FilterUsersByDivision(ctx context.Context, division string) ([]User, error)
		UpdateOrCreateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// Authenticate resolves a user by email (case-insensitive) and checks the password.
// It returns ErrNotFound for an unknown email and ErrInvalidCredentials for a
// password mismatch.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

// Register creates a new account on behalf of a registrar, subject to the
// role grants table. The new user gets a fresh ID and a generated avatar.
func (svc *Service) Register(ctx context.Context, registrar User, nu NewUser) (User, error) {
	if !CanRegister(registrar.Role, nu.Role) {
		return User{}, errors.Wrapf(ErrPermissionDenied, "%s cannot register %s", registrar.Role, nu.Role)
	}
	if err := svc.repo.CheckEmailUniqueness(ctx, nu.Email); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return User{}, err
	}

	now := time.Now().UTC()
	usr := User{
		ID:             uuid.New().String(),
		Name:           nu.Name,
		Email:          nu.Email,
		Role:           nu.Role,
		EnrollmentNo:   nu.EnrollmentNo,
		Division:       nu.Division,
		ClassTeacherID: nu.ClassTeacherID,
		PhoneNumber:    nu.PhoneNumber,
		Avatar:         AvatarURL(nu.Name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) FilterByRole(ctx context.Context, role Role) ([]User, error) {
	return svc.repo.FilterUsersByRole(ctx, role)
}

func (svc *Service) FilterByDivision(ctx context.Context, division string) ([]User, error) {
	return svc.repo.FilterUsersByDivision(ctx, core.CleanString(division, true /* lower */))
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYour %s account has been created. Sign in at %s with your email address.\n",
			usr.Name, svc.conf.AppName, svc.conf.FrontendBaseURL,
		),
	})
}
