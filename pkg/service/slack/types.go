package slack

import "context"

// Service is the outbound Slack surface the bot needs: posting one reply
// per inbound message and downloading user-uploaded files.
type Service interface {
	PostMessage(ctx context.Context, channelID, text string) error
	DownloadFile(ctx context.Context, downloadURL string) ([]byte, error)
}
