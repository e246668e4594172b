// Package facematch holds FaceMatcher implementations.
//
// None of them compares faces yet: the check is advisory and only guards
// against photos that were never taken.
package facematch

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// AcceptAll approves every photo. It is used when no evidence bucket is
// configured.
type AcceptAll struct{}

func (AcceptAll) Match(context.Context, string, string) (bool, error) {
	return true, nil
}

// UploadedPhoto approves a fresh photo once the evidence store confirms it
// was uploaded. Resubmitting the photo on file is rejected.
type UploadedPhoto struct {
	verifier ports.EvidenceVerifier
}

func NewUploadedPhoto(verifier ports.EvidenceVerifier) UploadedPhoto {
	return UploadedPhoto{verifier: verifier}
}

func (m UploadedPhoto) Match(ctx context.Context, referenceRef, candidateRef string) (bool, error) {
	if strings.TrimSpace(candidateRef) == "" || strings.TrimSpace(candidateRef) == strings.TrimSpace(referenceRef) {
		return false, nil
	}

	err := m.verifier.Verify(ctx, []string{candidateRef})
	if errors.Is(err, errs.ErrValueIsInvalid) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
