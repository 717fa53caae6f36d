package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vaccine-accounts/internal/domain/entity"
	repo "github.com/oksasatya/vaccine-accounts/internal/domain/repository"
	"github.com/oksasatya/vaccine-accounts/pkg/helpers"
)

type Service struct {
	Repo   repo.UserRepository
	Tokens *helpers.TokenManager
	Logger *logrus.Logger
}

func NewService(repo repo.UserRepository, tokens *helpers.TokenManager, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &Service{Repo: repo, Tokens: tokens, Logger: logger}
}

// Identity is the authenticated caller as resolved from the auth token.
type Identity struct {
	ID          int64
	AccountType string
	Email       string
}

func (i Identity) IsAdmin() bool { return i.AccountType == entity.AccountTypeAdmin }

// target applies the ownership rule: only an admin may act on another account.
func (i Identity) target(requested int64) int64 {
	if i.IsAdmin() {
		return requested
	}
	return i.ID
}

type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Gender      string
	Age         int
	PhoneNumber string
	AccountType string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	if !helpers.ValidEmail(in.Email) {
		s.Logger.WithField("email", in.Email).Warn("the entered email is invalid")
		return "", ErrInvalidEmail
	}
	if err := checkPassword(in.Password); err != nil {
		return "", err
	}
	if in.AccountType == entity.AccountTypeAdmin {
		exists, err := s.adminExists(ctx, 0)
		if err != nil {
			return "", err
		}
		if exists {
			s.Logger.WithField("email", in.Email).Warn("admin already exists")
			return "", ErrAlreadyExists
		}
	}
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		s.Logger.WithField("email", in.Email).Warn("user already exists")
		return "", ErrAlreadyExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Email:       in.Email,
		Password:    hash,
		Name:        in.Name,
		Gender:      in.Gender,
		Age:         in.Age,
		PhoneNumber: in.PhoneNumber,
		AccountType: in.AccountType,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return "", ErrAlreadyExists
		}
		return "", err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	return fmt.Sprintf("User - %s Registered Successfully", u.Email), nil
}

type LoginResult struct {
	AuthToken string    `json:"auth_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticate checks email/password and issues an auth token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	if !helpers.ValidEmail(email) {
		s.Logger.WithField("email", email).Warn("the entered email is invalid")
		return nil, ErrInvalidEmail
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithField("email", email).Warn("user not found")
		return nil, ErrAuthFailed
	}
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		s.Logger.WithField("email", email).Warn("auth failed, valid username/password required")
		return nil, ErrAuthFailed
	}
	tok, exp, err := s.Tokens.Issue(u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate auth token failed")
		return nil, err
	}
	return &LoginResult{AuthToken: tok, ExpiresAt: exp}, nil
}

// ResolveIdentity maps a token subject to a live account.
func (s *Service) ResolveIdentity(ctx context.Context, email string) (Identity, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return Identity{}, ErrUnauthorized
	}
	if err != nil {
		return Identity{}, err
	}
	return Identity{ID: u.ID, AccountType: u.AccountType, Email: u.Email}, nil
}

// ModifyInput carries the fields to change; nil means "leave as is".
type ModifyInput struct {
	UpdatedEmail *string
	Password     *string
	Name         *string
	Gender       *string
	Age          *int
	PhoneNumber  *string
	AccountType  *string

	entity.Vaccination
}

func (in ModifyInput) changes() repo.Changes {
	ch := repo.Changes{}
	if in.Name != nil {
		ch["name"] = *in.Name
	}
	if in.Gender != nil {
		ch["gender"] = *in.Gender
	}
	if in.Age != nil {
		ch["age"] = *in.Age
	}
	if in.PhoneNumber != nil {
		ch["phone_number"] = *in.PhoneNumber
	}
	if in.AccountType != nil {
		ch["account_type"] = *in.AccountType
	}
	if in.VaccineName != nil {
		ch["vaccine_name"] = *in.VaccineName
	}
	if in.FirstDozeTaken != nil {
		ch["first_doze_taken"] = *in.FirstDozeTaken
	}
	if in.FirstDozeDate != nil {
		ch["first_doze_date"] = *in.FirstDozeDate
	}
	if in.SecondDozeTaken != nil {
		ch["second_doze_taken"] = *in.SecondDozeTaken
	}
	if in.SecondDozeDate != nil {
		ch["second_doze_date"] = *in.SecondDozeDate
	}
	if in.IsFullyVaccinated != nil {
		ch["is_fully_vaccinated"] = *in.IsFullyVaccinated
	}
	return ch
}

func (in ModifyInput) empty() bool {
	return in.UpdatedEmail == nil && in.Password == nil && len(in.changes()) == 0
}

// Modify updates profile or vaccination fields of accountID. Non-admin
// callers always modify their own account whatever accountID says.
func (s *Service) Modify(ctx context.Context, who Identity, accountID int64, in ModifyInput) (string, error) {
	if in.empty() {
		return "", paramErr("No data to update")
	}
	if _, err := s.Repo.GetByEmail(ctx, who.Email); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithField("email", who.Email).Warn("user not found")
			return "", ErrNotFound
		}
		return "", err
	}
	target := who.target(accountID)

	ch := in.changes()
	if in.UpdatedEmail != nil {
		email := *in.UpdatedEmail
		if !helpers.ValidEmail(email) {
			s.Logger.WithField("email", email).Warn("the entered email is invalid")
			return "", ErrInvalidEmail
		}
		if other, err := s.Repo.GetByEmail(ctx, email); err == nil && other.ID != target {
			return "", ErrAlreadyExists
		} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return "", err
		}
		ch["email"] = email
	}
	if in.Password != nil {
		if err := checkPassword(*in.Password); err != nil {
			return "", err
		}
		hash, err := helpers.HashPassword(*in.Password)
		if err != nil {
			return "", fmt.Errorf("hash password: %w", err)
		}
		ch["password"] = hash
	}
	if in.AccountType != nil && *in.AccountType == entity.AccountTypeAdmin {
		exists, err := s.adminExists(ctx, target)
		if err != nil {
			return "", err
		}
		if exists {
			return "", ErrAlreadyExists
		}
	}

	n, err := s.Repo.Update(ctx, repo.Filter{"id": target}, ch)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return "", ErrAlreadyExists
		}
		return "", err
	}
	if n == 0 {
		s.Logger.WithField("user_id", target).Warn("user not found")
		return "", ErrNotFound
	}
	s.Logger.WithFields(logrus.Fields{"user_id": target, "by": who.ID}).Info("user modified")
	return "User Details modified successfully", nil
}

// FetchObject returns one sanitized account. Vaccination keys are only
// present when withVaccineData is set.
func (s *Service) FetchObject(ctx context.Context, who Identity, accountID int64, withVaccineData bool) (map[string]any, error) {
	u, err := s.Repo.GetByID(ctx, who.target(accountID))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return Sanitize(u, withVaccineData), nil
}

type FetchFilter struct {
	Filter string
	Value  string
	Auth   bool
}

// FetchAccounts lists accounts for the admin. Auth restricts the result to
// the caller's own record and wins over Filter.
func (s *Service) FetchAccounts(ctx context.Context, who Identity, ff FetchFilter) ([]map[string]any, error) {
	if !who.IsAdmin() {
		return nil, ErrUnauthorized
	}
	var f repo.Filter
	switch {
	case ff.Auth:
		f = repo.Filter{"email": who.Email}
	case ff.Filter == "all":
		f = repo.Filter{}
	case ff.Filter != "":
		v, err := ParseFilterValue(ff.Filter, ff.Value)
		if err != nil {
			return nil, err
		}
		f = repo.Filter{ff.Filter: v}
	default:
		return nil, paramErr("filter or auth param required")
	}

	users, err := s.Repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		s.Logger.WithField("filter", f).Warn("user not found")
		return nil, ErrNotFound
	}
	out := make([]map[string]any, 0, len(users))
	for i := range users {
		out = append(out, Sanitize(&users[i], true))
	}
	return out, nil
}

// Delete soft-deletes accountID under the same ownership rule as Modify.
func (s *Service) Delete(ctx context.Context, who Identity, accountID int64) (string, error) {
	target := who.target(accountID)
	if _, err := s.Repo.GetByID(ctx, target); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithField("user_id", target).Warn("user does not exist")
			return "", ErrNotFound
		}
		return "", err
	}
	n, err := s.Repo.SoftDelete(ctx, repo.Filter{"id": target})
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrNotFound
	}
	s.Logger.WithFields(logrus.Fields{"user_id": target, "by": who.ID}).Info("user deleted")
	return "User Deleted successfully", nil
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func checkPassword(p string) error {
	if len(p) > maxPasswordBytes {
		return paramErr("password must be at most 72 bytes")
	}
	return nil
}

// adminExists reports whether a live admin other than except exists.
func (s *Service) adminExists(ctx context.Context, except int64) (bool, error) {
	admin, err := s.Repo.FindOne(ctx, repo.Filter{"account_type": entity.AccountTypeAdmin})
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return admin.ID != except, nil
}
