package tutor

import (
	"context"
	"errors"
	"io"

	"learnhub/validators"
)

// UploadCourseFile stores course media through the presigned upload flow and
// returns the public object URL.
func (a *Actions) UploadCourseFile(ctx context.Context, s Session, file io.Reader, filename, contentType, kind string) (string, error) {
	if !a.isTutor(s) {
		return "", ErrUnauthorized
	}
	if err := a.validate(validators.UploadRequest{Filename: filename, ContentType: contentType, Type: kind}); err != nil {
		return "", err
	}
	if a.uploader == nil {
		return "", a.fail("Failed to upload file", errors.New("no uploader configured"))
	}

	url, err := a.uploader.Upload(ctx, s.Token, file, filename, contentType, kind)
	if err != nil {
		return "", a.fail("Failed to upload file", err, "user_id", s.UserID, "filename", filename)
	}
	a.log.Info("course file uploaded", "user_id", s.UserID, "kind", kind, "url", url)
	return url, nil
}
