package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/securelogin/internal/page/entity"
	"github.com/shandysiswandi/securelogin/internal/pkg/clock"
	"github.com/shandysiswandi/securelogin/internal/pkg/hash"
	"go.opentelemetry.io/otel/codes"
)

type HashAndVerifyInput struct {
	Password string `validate:"required"`
	Salt     string `validate:"omitempty,min=8"`
}

// HashAndVerify hashes the demo password, shows the digest in out, then
// verifies the password against the encoded hash and appends
// entity.VerifiedText on success. Failures are logged and returned; out is
// left as it was at the time of the failure.
func (s *Usecase) HashAndVerify(ctx context.Context, out output) error {
	ctx, span := s.startSpan(ctx, "HashAndVerify")
	defer span.End()

	in := HashAndVerifyInput{
		Password: s.cfg.GetString("page.demo.password"),
		Salt:     s.cfg.GetString("page.demo.salt"),
	}

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid hash demo input", "error", err)
		span.SetStatus(codes.Error, "invalid input")
		return fmt.Errorf("%w: %w", entity.ErrHash, err)
	}

	start := s.clock.Now()

	var (
		digest *hash.Digest
		err    error
	)
	if in.Salt == "" {
		digest, err = s.hasher.HashRandomSalt(in.Password)
	} else {
		digest, err = s.hasher.HashWithSalt(in.Password, []byte(in.Salt))
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "hash failed")
		return fmt.Errorf("%w: %w", entity.ErrHash, err)
	}

	out.SetText(entity.HashText(digest.Encoded, digest.Hex))

	slog.DebugContext(ctx, "password hashed",
		"encoded", digest.Encoded,
		"latency_ms", clock.Since(s.clock, start).Milliseconds(),
	)

	if err := s.hasher.Compare(digest.Encoded, in.Password); err != nil {
		slog.ErrorContext(ctx, "failed to verify password", "encoded", digest.Encoded, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "verify failed")
		return fmt.Errorf("%w: %w", entity.ErrVerify, err)
	}

	out.AppendText(entity.VerifiedText)

	slog.DebugContext(ctx, "password verified", "latency_ms", clock.Since(s.clock, start).Milliseconds())

	return nil
}
