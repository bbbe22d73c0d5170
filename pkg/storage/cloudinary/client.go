package cloudinary

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/filmharbor/festival-backend/pkg/config"
)

// DestroyOutcome reports what the remote store did with a delete request.
type DestroyOutcome string

const (
	DestroyOK       DestroyOutcome = "ok"
	DestroyNotFound DestroyOutcome = "not_found"
)

// UploadResult carries the served URL and the deletion key of a stored object.
type UploadResult struct {
	URL      string
	PublicID string
}

// Client wraps the Cloudinary SDK behind the operations the services need.
type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// New constructs a Cloudinary client from explicit credentials.
func New(cfg config.CloudinaryConfig) (*Client, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Client{cld: cld, folder: cfg.UploadFolder}, nil
}

// Upload stores the file under a folder hint and returns its URL and public ID.
func (c *Client) Upload(ctx context.Context, file io.Reader, folderHint string) (*UploadResult, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploadParams(c.folder, folderHint))
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return &UploadResult{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

// uploadParams builds the SDK params for an upload. The resource type is left
// to Cloudinary's detection so the same path serves images and video files.
func uploadParams(base, hint string) uploader.UploadParams {
	folder := base
	if h := strings.Trim(strings.TrimSpace(hint), "/"); h != "" {
		if folder != "" {
			folder = folder + "/" + h
		} else {
			folder = h
		}
	}
	return uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto",
	}
}

// Destroy deletes the object addressed by publicID. A "not found" answer is
// reported as an outcome, not an error.
func (c *Client) Destroy(ctx context.Context, publicID, resourceType string) (DestroyOutcome, error) {
	if resourceType == "" {
		resourceType = "image"
	}
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary destroy: %w", err)
	}
	if strings.EqualFold(resp.Result, "ok") {
		return DestroyOK, nil
	}
	if strings.Contains(strings.ToLower(resp.Result), "not found") {
		return DestroyNotFound, nil
	}
	return "", fmt.Errorf("cloudinary destroy: unexpected result %q", resp.Result)
}
