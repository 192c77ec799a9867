package slack

import (
	"bytes"
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Service
type client struct {
	api *slack.Client
}

// New creates a new Slack service with the provided bot token
func New(token string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	return &client{
		api: slack.New(token),
	}, nil
}

// PostMessage posts a plain-text message to the given channel
func (c *client) PostMessage(ctx context.Context, channelID, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post message", goerr.V("channelID", channelID))
	}

	return nil
}

// DownloadFile fetches a file's bytes from its url_private, authenticating
// with the bot token.
func (c *client) DownloadFile(ctx context.Context, downloadURL string) ([]byte, error) {
	if downloadURL == "" {
		return nil, goerr.New("download URL is required")
	}

	var buf bytes.Buffer
	if err := c.api.GetFileContext(ctx, downloadURL, &buf); err != nil {
		return nil, goerr.Wrap(err, "failed to download file", goerr.V("url", downloadURL))
	}

	return buf.Bytes(), nil
}
