package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured    = errors.New("api credential not configured")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDocumentNotFound = errors.New("document not found")
	ErrTemporary        = errors.New("temporary failure")

	// ErrEmbeddingFailed aborts the enclosing operation; an embedding call
	// never degrades to a zero vector.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// Generation failures stay distinguishable from a genuine "no answer"
	// response; only the presentation layer flattens them to fixed strings.
	ErrGenerationUnavailable = errors.New("generation unavailable")
	ErrGenerationEmpty       = errors.New("generation returned no text")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
