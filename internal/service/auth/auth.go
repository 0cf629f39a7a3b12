// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"time"

	"plus-service/internal/domain/auth"
	"plus-service/internal/domain/user"
	xerrors "plus-service/internal/pkg/errors"
	"plus-service/internal/pkg/jwt"
	"plus-service/internal/pkg/session"

	"go.uber.org/zap"
)

type TokenVerifier interface {
	Verify(tokenString string) (*jwt.ProviderClaims, error)
}

type UserWriter interface {
	Upsert(ctx context.Context, p *user.Profile) (*user.User, error)
}

type SessionIssuer interface {
	Issue(subjectID string) (string, *session.Claims, error)
}

type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type AuthService struct {
	verifier TokenVerifier
	users    UserWriter
	sessions SessionIssuer
	revoker  SessionRevoker
	logger   *zap.Logger
}

func NewAuthService(
	verifier TokenVerifier,
	users UserWriter,
	sessions SessionIssuer,
	revoker SessionRevoker,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		verifier: verifier,
		users:    users,
		sessions: sessions,
		revoker:  revoker,
		logger:   logger,
	}
}

// ========== Login ==========

// Login exchanges a provider ID token for a session. It is the only path
// that writes the user record.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, *auth.Session, error) {
	claims, err := s.verifier.Verify(req.IDToken)
	if err != nil {
		return nil, nil, xerrors.Mark(err, xerrors.ErrInvalidToken)
	}

	entries := make([]user.SubscriptionEntry, 0, len(claims.Subscriptions))
	for _, plan := range claims.Subscriptions {
		entries = append(entries, user.SubscriptionEntry{Plan: plan})
	}
	subType := user.BestSubscription(entries)

	profile := &user.Profile{
		SubjectID:        claims.Subject,
		Email:            claims.Email,
		IsSubscriber:     subType.IsPaid(),
		SubscriptionType: subType,
	}
	if claims.Avatar != "" {
		avatar := claims.Avatar
		profile.AvatarURL = &avatar
	}

	u, err := s.users.Upsert(ctx, profile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save user: %w", err)
	}

	token, sc, err := s.sessions.Issue(u.SubjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("subject_id", u.SubjectID),
		zap.String("subscription_type", string(u.SubscriptionType)),
	)

	return &auth.LoginResponse{
			Username:         u.Username,
			Email:            u.Email,
			IsSubscriber:     u.IsSubscriber,
			SubscriptionType: u.SubscriptionType,
			ExpiresAt:        sc.ExpiresAt.Time,
		}, &auth.Session{
			Token:     token,
			TokenID:   sc.ID,
			ExpiresAt: sc.ExpiresAt.Time,
		}, nil
}

// ========== Logout ==========

// Logout revokes the session until it would have expired.
func (s *AuthService) Logout(ctx context.Context, current session.ValidCurrent) error {
	if err := s.revoker.Revoke(ctx, current.TokenID, current.ExpiresAt); err != nil {
		return xerrors.Mark(err, xerrors.ErrSessionStore)
	}

	s.logger.Info("user logged out", zap.String("subject_id", current.SubjectID))
	return nil
}
