package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxUploadBytes = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadPostImage handles POST /api/upload/upload-post-image. Admin only.
// Files are stored under a date-derived directory and named by content hash,
// so a re-upload of the same bytes lands on the same file.
func (s *Server) UploadPostImage(c *fiber.Ctx) error {
	now := time.Now()
	dir := fmt.Sprintf("posts/images/%d/%d/%d", now.Year(), int(now.Month()), now.Day())

	url, err := s.storeImage(c, dir)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    fiber.Map{"url": url},
		"message": "Post image uploaded successfully",
		"success": true,
	})
}

// UploadProfileImage handles POST /api/upload/upload-profile-image.
func (s *Server) UploadProfileImage(c *fiber.Ctx) error {
	url, err := s.storeImage(c, "profiles")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	user := s.currentUser(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":    fiber.Map{"url": url},
		"message": fmt.Sprintf("Profile image for user with email %s uploaded successfully", user.Email),
		"success": true,
	})
}

// storeImage validates the "image" form file and writes it below the upload
// root. The returned URL is relative, e.g. "profiles/ab12...ef.png".
func (s *Server) storeImage(c *fiber.Ctx, dir string) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", models.NewFieldValidationError(map[string]string{"image": "The image field is required."})
	}
	if fileHeader.Size > maxUploadBytes {
		return "", models.NewFieldValidationError(map[string]string{"image": "The image may not be greater than 5120 kilobytes."})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return "", models.NewFieldValidationError(map[string]string{"image": "The image must be a file of type: jpg, jpeg, png, gif, webp."})
	}

	name, err := hashUpload(fileHeader)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	target := filepath.Join(s.config.UploadDir, filepath.FromSlash(dir))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := c.SaveFile(fileHeader, filepath.Join(target, name+ext)); err != nil {
		return "", models.NewInternalError(err)
	}

	return path.Join(dir, name+ext), nil
}

func hashUpload(fileHeader *multipart.FileHeader) (string, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
