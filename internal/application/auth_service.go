package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	repo "github.com/mustafa-mbari/wmsv1-sub001/internal/domain/repository"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
	"github.com/mustafa-mbari/wmsv1-sub001/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")
	ErrVerifyTokenInvalid = errors.New("verification token is invalid or expired")
)

const (
	resetTokenTTL  = 30 * time.Minute
	verifyTokenTTL = 24 * time.Hour
	sessionTTL     = 24 * time.Hour
)

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string { return "user:session:" + userID }
func resetKey(token string) string    { return "user:reset:" + token }
func verifyKey(token string) string   { return "user:verify:" + token }

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339Nano) }

// AuthService owns login, sessions, password reset and email verification.
// The Redis session hash is the source of truth for which session id (sid) is
// current; rotating the sid invalidates every older token pair.
type AuthService struct {
	Users      repo.UserRepository
	Roles      repo.RoleRepository
	JWT        *helpers.JWTManager
	Redis      *redis.Client
	GCS        *storage.Client
	GCSBucket  string
	Dispatcher EventDispatcher
	Index      UserIndexer
	Logger     *logrus.Logger
}

func NewAuthService(users repo.UserRepository, roles repo.RoleRepository, jwt *helpers.JWTManager, rdb *redis.Client, gcs *storage.Client, gcsBucket string, dispatcher EventDispatcher, index UserIndexer, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:      users,
		Roles:      roles,
		JWT:        jwt,
		Redis:      rdb,
		GCS:        gcs,
		GCSBucket:  gcsBucket,
		Dispatcher: dispatcher,
		Index:      index,
		Logger:     logger,
	}
}

type LoginResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Authenticate validates identifier (username or email) and password. It never
// reveals which of the two was wrong.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*entity.User, error) {
	u, err := s.Users.FindByUsernameOrEmail(ctx, identifier, identifier)
	if err != nil || u == nil || u.IsDeleted() {
		return nil, ErrInvalidCredentials
	}
	if !u.Password().Compare(password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, ErrUserInactive
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, TokenPair{}, err
	}

	u.RecordLogin()
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, TokenPair{}, err
	}
	dispatchAndIndex(ctx, s.Dispatcher, s.Index, u)

	role := s.primaryRoleSlug(ctx, u.ID())
	pair, err := s.IssueTokens(ctx, u, role)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{
		UserID:   u.ID().String(),
		Username: u.Username().String(),
		Email:    u.Email().String(),
		FullName: u.Profile().FullName(),
		Role:     role,
	}
	return resp, pair, nil
}

// IssueTokens generates an access/refresh pair and records the session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User, roleSlug string) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID().String(), sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID().String(), sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID().String())
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID().String(),
			"username":   u.Username().String(),
			"email":      u.Email().String(),
			"full_name":  u.Profile().FullName(),
			"role":       roleSlug,
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh validates the refresh token against the current session, then
// rotates the session id and both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	id, err := valueobject.ParseEntityID(claims.UserID)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Users.FindByID(ctx, id)
	if err != nil || u == nil || u.IsDeleted() || !u.IsActive() {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID().String())).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID().String(), sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID().String(), sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID().String())
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{"sid": sid, "updated_at": nowRFC3339()})
		pipe.Expire(ctx, key, sessionTTL)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, u.ID().String(), nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// RequestPasswordReset issues a one-time token. It reports success even when
// the email is unknown so the endpoint cannot be used to probe accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil || u.IsDeleted() {
		return nil
	}
	token, err := helpers.GenToken(32)
	if err != nil {
		return err
	}
	expires := time.Now().UTC().Add(resetTokenTTL)
	if err := u.SetResetToken(token, expires, nil); err != nil {
		return err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, resetKey(token), u.ID().String(), resetTokenTTL).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("reset token cache failed")
		}
	}
	dispatchAndIndex(ctx, s.Dispatcher, s.Index, u)
	return nil
}

// ConfirmPasswordReset exchanges a valid token for a new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	u, err := s.userForResetToken(ctx, token)
	if err != nil {
		return err
	}
	pw, err := valueobject.NewPassword(newPassword)
	if err != nil {
		return err
	}
	if err := u.ChangePassword(pw, nil); err != nil {
		return err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, resetKey(token)).Err()
	}
	// Invalidate the current session: a reset usually means the password leaked.
	s.Logout(ctx, u.ID().String())
	dispatchAndIndex(ctx, s.Dispatcher, s.Index, u)
	return nil
}

func (s *AuthService) userForResetToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrResetTokenInvalid
	}
	if s.Redis != nil {
		uid, err := s.Redis.Get(ctx, resetKey(token)).Result()
		if err == nil && uid != "" {
			id, pErr := valueobject.ParseEntityID(uid)
			if pErr == nil {
				u, fErr := s.Users.FindByID(ctx, id)
				if fErr != nil {
					return nil, fErr
				}
				if u != nil && u.HasValidResetToken(token) {
					return u, nil
				}
			}
		}
	}
	return nil, ErrResetTokenInvalid
}

// RequestEmailVerification emits a verification link for the logged-in user.
func (s *AuthService) RequestEmailVerification(ctx context.Context, userID string) error {
	id, err := valueobject.ParseEntityID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil || u.IsDeleted() {
		return ErrUserNotFound
	}
	if u.IsEmailVerified() {
		return nil
	}
	token, err := helpers.GenToken(32)
	if err != nil {
		return err
	}
	if s.Redis == nil {
		return errors.New("verification requires redis")
	}
	if err := s.Redis.Set(ctx, verifyKey(token), u.ID().String(), verifyTokenTTL).Err(); err != nil {
		return err
	}
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, []event.DomainEvent{
			event.NewUserVerificationRequested(u.ID().String(), u.Email().String(), token),
		})
	}
	return nil
}

// ConfirmEmailVerification marks the email verified for a valid token.
func (s *AuthService) ConfirmEmailVerification(ctx context.Context, token string) error {
	if token == "" || s.Redis == nil {
		return ErrVerifyTokenInvalid
	}
	uid, err := s.Redis.Get(ctx, verifyKey(token)).Result()
	if err != nil || uid == "" {
		return ErrVerifyTokenInvalid
	}
	id, err := valueobject.ParseEntityID(uid)
	if err != nil {
		return ErrVerifyTokenInvalid
	}
	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil || u.IsDeleted() {
		return ErrVerifyTokenInvalid
	}
	u.VerifyEmail(nil)
	if err := s.Users.Save(ctx, u); err != nil {
		return err
	}
	_ = s.Redis.Del(ctx, verifyKey(token)).Err()
	dispatchAndIndex(ctx, s.Dispatcher, s.Index, u)
	return nil
}

// UploadAvatar stores the image in GCS and points the profile at the new URL.
func (s *AuthService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id, err := valueobject.ParseEntityID(userID)
	if err != nil {
		return "", ErrUserNotFound
	}
	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if u == nil || u.IsDeleted() {
		return "", ErrUserNotFound
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	profile, err := u.Profile().Update(valueobject.ProfileChanges{AvatarURL: &url})
	if err != nil {
		return "", err
	}
	u.UpdateProfile(profile, &id)
	if err := s.Users.Save(ctx, u); err != nil {
		return "", err
	}
	dispatchAndIndex(ctx, s.Dispatcher, s.Index, u)
	return url, nil
}

// SearchUsers delegates to the search index.
func (s *AuthService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	return s.Index.Search(ctx, q, size)
}

// primaryRoleSlug returns the highest-authority role slug the user holds, or
// empty when none is assigned.
func (s *AuthService) primaryRoleSlug(ctx context.Context, userID valueobject.EntityID) string {
	if s.Roles == nil {
		return ""
	}
	roles, err := s.Roles.FindForUser(ctx, userID)
	if err != nil || len(roles) == 0 {
		return ""
	}
	best := roles[0]
	for _, r := range roles[1:] {
		if r.HasHigherAuthorityThan(best) {
			best = r
		}
	}
	return best.Slug().String()
}
