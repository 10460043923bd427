package blog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"charm-dblog-tui/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// Draft is the user's input for a new post
type Draft struct {
	Title     string `validate:"required"`
	Content   string `validate:"required"`
	ImagePath string
}

// Result describes a submitted transaction
type Result struct {
	TxHash    common.Hash
	ImageHash string
	// ImageDropped is set when an image was given but could not be pinned
	ImageDropped bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Authoring publishes new posts
type Authoring struct {
	s *Session
}

// Submit pins the draft's image, if any, and creates the post. An image
// that fails to upload is dropped and the post is created without it.
func (a *Authoring) Submit(ctx context.Context, d Draft) (Result, error) {
	s := a.s
	from, ok := s.Account()
	if !ok {
		s.notifier.Notify(LevelWarning, MsgConnectFirst)
		return Result{}, fmt.Errorf("%w: wallet not connected", domain.ErrValidation)
	}

	d.ImagePath = strings.TrimSpace(d.ImagePath)
	if err := validate.Struct(d); err != nil {
		s.notifier.Notify(LevelWarning, MsgRequiredFields)
		return Result{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	var res Result
	if d.ImagePath != "" {
		hash, err := a.uploadImage(ctx, d.ImagePath)
		if err != nil {
			s.logger.Error("Error uploading image", "path", d.ImagePath, "err", err)
			s.notifier.Notify(LevelWarning, MsgUploadFailed)
			res.ImageDropped = true
		} else {
			res.ImageHash = hash
			s.notifier.Notify(LevelSuccess, MsgUploaded)
		}
	}

	s.notifier.Notify(LevelInfo, MsgCreatingPost)
	if s.gateway == nil {
		err := fmt.Errorf("%w: blockchain connection not available", domain.ErrTransaction)
		s.logger.Error("Error creating post", "err", err)
		s.notifier.Notify(LevelError, MsgPostFailed)
		return res, err
	}

	rctx, cancel := s.rpcContext(ctx)
	defer cancel()

	tx, err := s.gateway.CreatePost(rctx, from, d.Title, d.Content, res.ImageHash)
	if err != nil {
		s.logger.Error("Error creating post", "err", err)
		if errors.Is(err, domain.ErrUserRejected) {
			s.notifier.Notify(LevelError, MsgPostRejected)
		} else {
			s.notifier.Notify(LevelError, MsgPostFailed)
		}
		return res, err
	}

	res.TxHash = tx
	s.notifier.Notify(LevelSuccess, MsgPostCreated)
	s.logger.Info("Post created", "tx", tx.Hex(), "image", res.ImageHash)
	return res, nil
}

func (a *Authoring) uploadImage(ctx context.Context, path string) (string, error) {
	s := a.s
	if s.pinner == nil {
		return "", fmt.Errorf("%w: no pinning service configured", domain.ErrUpload)
	}

	f, err := s.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}
	defer f.Close()

	s.notifier.Notify(LevelInfo, MsgUploading)

	uctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()
	return s.pinner.Upload(uctx, filepath.Base(path), f)
}

// CheckImage reports whether path names a readable regular file
func (a *Authoring) CheckImage(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	info, err := a.s.fs.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
