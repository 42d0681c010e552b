package usecase

import (
	"context"
	"fmt"

	"pocketspace/internal/domain/entity"
	"pocketspace/internal/domain/repository"
	"pocketspace/internal/infrastructure/firebase"
	"pocketspace/internal/infrastructure/oauth"
	"pocketspace/pkg/errors"
	"pocketspace/pkg/logger"
)

type AuthUseCase struct {
	userRepo   repository.UserRepository
	authClient *firebase.FirebaseAuthClient
	verifiers  map[string]oauth.Verifier
}

func NewAuthUseCase(userRepo repository.UserRepository, authClient *firebase.FirebaseAuthClient, verifiers ...oauth.Verifier) *AuthUseCase {
	byProvider := make(map[string]oauth.Verifier, len(verifiers))
	for _, v := range verifiers {
		byProvider[v.Provider()] = v
	}

	return &AuthUseCase{
		userRepo:   userRepo,
		authClient: authClient,
		verifiers:  byProvider,
	}
}

type SignInInput struct {
	Provider   string `json:"-"`
	Credential string `json:"token" validate:"required"`
	// Nickname is only honored on first sign-in, for providers (Apple) that
	// never ship one.
	Nickname string `json:"nickname,omitempty"`
}

type SignInResult struct {
	CustomToken string       `json:"customToken"`
	Profile     *entity.User `json:"profile"`
}

// SignIn exchanges a provider credential for a Firebase custom token. The
// provider asserts who the caller is; the account is keyed by provider and
// provider uid so identities never collide across providers.
func (uc *AuthUseCase) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	verifier, ok := uc.verifiers[input.Provider]
	if !ok {
		return nil, errors.BadRequest(fmt.Sprintf("Unsupported sign-in provider: %s", input.Provider), nil)
	}

	identity, err := verifier.Verify(ctx, input.Credential)
	if err != nil {
		logger.Warn("Sign-in verification failed for provider %s: %v", input.Provider, err)
		return nil, err
	}

	nickname := identity.Nickname
	if nickname == "" {
		nickname = input.Nickname
	}

	user := &entity.User{
		ID:       identity.Provider + ":" + identity.UID,
		Provider: identity.Provider,
		Email:    identity.Email,
		Nickname: nickname,
		PhotoURL: identity.PhotoURL,
	}
	if err := uc.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.authClient.GenerateToken(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to mint custom token for %s: %v", user.ID, err)
		return nil, errors.Internal("Failed to issue sign-in token", err)
	}

	return &SignInResult{
		CustomToken: token,
		Profile:     user,
	}, nil
}

// Authenticate resolves a Firebase ID token to an account; auth middleware
// calls it on every protected request.
func (uc *AuthUseCase) Authenticate(ctx context.Context, idToken string) (*entity.User, error) {
	uid, err := uc.authClient.VerifyToken(ctx, idToken)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.Unauthorized("Account not found for token", err)
	}
	return user, nil
}
