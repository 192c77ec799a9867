package vision

import (
	"context"
	"encoding/base64"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
	visionapi "google.golang.org/api/vision/v1"
)

const defaultMaxResults = 10

// client implements Service with Google Cloud Vision label detection
type client struct {
	svc        *visionapi.Service
	maxResults int64
}

// Option is a functional option for client configuration
type Option func(*client)

// WithMaxResults sets how many labels to request per image
func WithMaxResults(n int64) Option {
	return func(c *client) {
		c.maxResults = n
	}
}

// New creates a Cloud Vision-backed Service. credentialsFile may be empty,
// in which case application default credentials are used.
func New(ctx context.Context, credentialsFile string, opts ...Option) (Service, error) {
	var clientOpts []option.ClientOption
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := visionapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vision client")
	}

	c := &client{
		svc:        svc,
		maxResults: defaultMaxResults,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// DetectLabels requests label annotations for the image. The API returns
// labels ordered by score descending; that order is preserved.
func (c *client) DetectLabels(ctx context.Context, image []byte) ([]Label, error) {
	if len(image) == 0 {
		return nil, goerr.New("image is empty")
	}

	req := &visionapi.BatchAnnotateImagesRequest{
		Requests: []*visionapi.AnnotateImageRequest{
			{
				Image: &visionapi.Image{
					Content: base64.StdEncoding.EncodeToString(image),
				},
				Features: []*visionapi.Feature{
					{Type: "LABEL_DETECTION", MaxResults: c.maxResults},
				},
			},
		},
	}

	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to annotate image")
	}

	if len(resp.Responses) == 0 {
		return nil, nil
	}
	annotated := resp.Responses[0]
	if annotated.Error != nil {
		return nil, goerr.New("vision API returned an error",
			goerr.V("code", annotated.Error.Code), goerr.V("message", annotated.Error.Message))
	}

	labels := make([]Label, 0, len(annotated.LabelAnnotations))
	for _, annotation := range annotated.LabelAnnotations {
		labels = append(labels, Label{
			Description: annotation.Description,
			Score:       annotation.Score,
		})
	}

	return labels, nil
}
