// Package intake drives a single profile through editing, photo capture and
// submission.
package intake

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/matsen/profiles/internal/draft"
	"github.com/matsen/profiles/internal/logging"
	"github.com/matsen/profiles/internal/profile"
	"github.com/matsen/profiles/internal/storage"
)

// Assets is the part of the asset manager the intake flow uses.
type Assets interface {
	Ingest(current, sourcePath string) (string, error)
	ResolvePreviewable(rel string) (string, bool)
	DeleteIfPresent(rel string)
}

// Store is the part of the record store the intake flow uses.
type Store interface {
	FindByKey(ctx context.Context, mobile string) (*profile.Record, error)
	Create(ctx context.Context, r profile.Record) (int64, error)
}

// Service ties a draft to asset storage and the record store.
type Service struct {
	Draft  *draft.Draft
	Assets Assets
	Store  Store
	Logger *zap.Logger
}

func (s *Service) log() *zap.Logger {
	return logging.OrNop(s.Logger)
}

// AttachPicture ingests sourcePath as the draft's photograph, replacing any
// previous one. On failure the draft keeps its previous picture and the
// picture field carries an error.
func (s *Service) AttachPicture(sourcePath string) error {
	current := s.Draft.Get().ProfilePicLocation
	rel, err := s.Assets.Ingest(current, sourcePath)
	if err != nil {
		s.Draft.SetError(profile.FieldProfilePicLocation, draft.MsgPictureInvalid)
		s.log().Warn("attaching picture failed", zap.String("source", sourcePath), zap.Error(err))
		return fmt.Errorf("attaching picture: %w", err)
	}
	s.Draft.SetProfilePicture(rel)
	return nil
}

// CaptureLocation asks p for the current position and stores it in the draft.
func (s *Service) CaptureLocation(ctx context.Context, p LocationProvider) error {
	c, err := p.Current(ctx)
	if err != nil {
		s.Draft.SetError(profile.FieldLocation, draft.MsgLocationInvalid)
		return fmt.Errorf("capturing location: %w", err)
	}
	if !s.Draft.SetLocation(c) {
		return &ValidationError{Errors: s.Draft.Errors()}
	}
	return nil
}

// Submit validates the draft, checks the mobile number is free and persists
// the record. On success the draft is reset and the new row id returned.
// A taken mobile number is reported both on the draft and as
// storage.ErrDuplicateKey.
func (s *Service) Submit(ctx context.Context) (int64, error) {
	if !s.Draft.CheckSubmit() {
		return 0, &ValidationError{Errors: s.Draft.Errors()}
	}
	r := s.Draft.Get()

	existing, err := s.Store.FindByKey(ctx, r.MobileNumber)
	if err != nil {
		return 0, fmt.Errorf("checking mobile number: %w", err)
	}
	if existing != nil {
		s.Draft.SetError(profile.FieldMobileNumber, draft.MsgMobileTaken)
		return 0, fmt.Errorf("%w: %s", storage.ErrDuplicateKey, r.MobileNumber)
	}

	id, err := s.Store.Create(ctx, r)
	if err != nil {
		if storage.IsDuplicateKey(err) {
			s.Draft.SetError(profile.FieldMobileNumber, draft.MsgMobileTaken)
		}
		return 0, fmt.Errorf("saving record: %w", err)
	}

	s.log().Info("profile submitted", zap.Int64("id", id), zap.String("mobile", r.MobileNumber))
	s.Draft.Reset()
	return id, nil
}

// Discard drops the draft, deleting its photograph if one was ingested.
func (s *Service) Discard() {
	if pic := s.Draft.Get().ProfilePicLocation; pic != "" {
		s.Assets.DeleteIfPresent(pic)
	}
	s.Draft.Reset()
}

// Preview returns a displayable URI for r's photograph.
func (s *Service) Preview(r profile.Record) (string, bool) {
	return s.Assets.ResolvePreviewable(r.ProfilePicLocation)
}

// CheckRecord runs the submit-time validation against a complete record
// without a live draft. The picture is not required here; whether a set
// picture resolves is the store's concern.
func CheckRecord(r profile.Record, opts ...draft.Option) error {
	d := draft.New(opts...)
	d.Set(r)
	if d.CheckSubmit() {
		return nil
	}
	errs := d.Errors()
	if r.ProfilePicLocation == "" {
		errs[profile.FieldProfilePicLocation] = ""
	}
	if !errs.Any() {
		return nil
	}
	return &ValidationError{Errors: errs}
}
