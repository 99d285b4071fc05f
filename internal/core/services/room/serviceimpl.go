package room

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/ports/secondary"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
	maxAttempts  = 5
)

var _ IRoomService = (*RoomService)(nil)

type RoomService struct {
	repo        secondary.RoomRepository
	jwtProvider primary.JWTService
	logger      primary.Logger
	newCode     func() (string, error)
}

func NewRoomService(repo secondary.RoomRepository, jwtProvider primary.JWTService, logger primary.Logger) *RoomService {
	return &RoomService{
		repo:        repo,
		jwtProvider: jwtProvider,
		logger:      logger,
		newCode:     randomCode,
	}
}

func (s *RoomService) Create(ctx context.Context, projectName, password string) (string, error) {
	if strings.TrimSpace(projectName) == "" || password == "" {
		return "", errs.MissingRoomFields
	}

	hash, err := s.jwtProvider.EncryptPassword(ctx, password)
	if err != nil {
		return "", fmt.Errorf("failed to hash room password: %w", err)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}

		err = s.repo.SaveRoom(ctx, &domain.Room{
			Code:         code,
			ProjectName:  projectName,
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		})
		if errors.Is(err, errs.RoomCodeTaken) {
			s.logger.Debug("Room code collision", "code", code)
			continue
		}
		if err != nil {
			return "", err
		}

		s.logger.Info("Room created", "code", code, "project", projectName)
		return code, nil
	}

	return "", fmt.Errorf("no free room code after %d attempts", maxAttempts)
}

func (s *RoomService) Join(ctx context.Context, code, password string) error {
	if code == "" || password == "" {
		return errs.MissingJoinFields
	}

	room, err := s.repo.GetRoom(ctx, strings.ToUpper(code))
	if err != nil {
		return err
	}
	if room == nil {
		return errs.RoomNotFound
	}

	ok, err := s.jwtProvider.VerifyPassword(ctx, room.PasswordHash, password)
	if err != nil || !ok {
		return errs.InvalidCredentials
	}
	return nil
}

func randomCode() (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
