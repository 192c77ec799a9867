package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harvest-lab/demeter/pkg/domain/model"
	slacksvc "github.com/harvest-lab/demeter/pkg/service/slack"
	"github.com/harvest-lab/demeter/pkg/usecase"
	"github.com/harvest-lab/demeter/pkg/utils/async"
	"github.com/harvest-lab/demeter/pkg/utils/errutil"
	"github.com/harvest-lab/demeter/pkg/utils/logging"
	"github.com/harvest-lab/demeter/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack/slackevents"
)

const (
	replyImageDownloadFailed = "Couldn't download image, please try again."
	replyInternalError       = "Something went wrong. Please try again."
)

// mentionPrefix strips the leading bot mention from app_mention text
var mentionPrefix = regexp.MustCompile(`^<@[A-Z0-9]+>\s*`)

// verifySlackSignature verifies the Slack request signature.
// This is a pure function that can be used independently for testing.
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}

	if signature == "" {
		return goerr.New("missing signature")
	}

	// Check timestamp to prevent replay attacks (within 5 minutes)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	now := time.Now().Unix()
	if now-ts > 60*5 {
		return goerr.New("timestamp too old", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware creates a middleware that verifies Slack request
// signatures
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			defer safe.Close(ctx, r.Body)

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewBuffer(body))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SlackWebhookHandler handles Slack Events API webhook requests
type SlackWebhookHandler struct {
	uc    *usecase.UseCases
	slack slacksvc.Service
}

// NewSlackWebhookHandler creates a new Slack webhook handler
func NewSlackWebhookHandler(uc *usecase.UseCases, slack slacksvc.Service) *SlackWebhookHandler {
	return &SlackWebhookHandler{
		uc:    uc,
		slack: slack,
	}
}

// ServeHTTP handles Slack webhook requests
func (h *SlackWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slack event"), http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to unmarshal challenge"), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		safe.Write(ctx, w, []byte(challenge.Challenge))
		return

	case slackevents.CallbackEvent:
		// Return 200 immediately to satisfy Slack's 3-second timeout
		w.WriteHeader(http.StatusOK)

		async.Dispatch(ctx, func(ctx context.Context) error {
			return h.handleCallbackEvent(ctx, &event)
		})

	default:
		logging.From(ctx).Warn("unknown slack event type", "type", event.Type)
		w.WriteHeader(http.StatusOK)
	}
}

// handleCallbackEvent turns a callback event into an inbound message, runs
// the pipeline and posts the single reply.
func (h *SlackWebhookHandler) handleCallbackEvent(ctx context.Context, event *slackevents.EventsAPIEvent) error {
	var channelID string
	var msg *model.Message

	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		channelID = ev.Channel
		msg = model.NewMessage(ev.User, mentionPrefix.ReplaceAllString(ev.Text, ""))

	case *slackevents.MessageEvent:
		// Only direct messages. A channel mention also arrives as a message
		// event; the app_mention branch already answers it, and handling
		// both would post two replies.
		if ev.ChannelType != "im" {
			return nil
		}
		// Ignore the bot's own messages and message edits/deletions
		if ev.BotID != "" || (ev.SubType != "" && ev.SubType != "file_share") {
			return nil
		}
		channelID = ev.Channel

		image, reply, err := h.downloadFirstImage(ctx, ev)
		if err != nil {
			errutil.Handle(ctx, err, "failed to download image attachment")
			return h.slack.PostMessage(ctx, channelID, reply)
		}
		if len(image) > 0 {
			msg = model.NewImageMessage(ev.User, ev.Text, image)
		} else {
			msg = model.NewMessage(ev.User, ev.Text)
		}

	default:
		logging.From(ctx).Warn("unsupported slack event",
			"type", event.Type, "innerType", event.InnerEvent.Type)
		return nil
	}

	reply, err := h.uc.HandleMessage(ctx, msg)
	if err != nil {
		errutil.Handle(ctx, err, "failed to handle inbound message")
		return h.slack.PostMessage(ctx, channelID, replyInternalError)
	}

	return h.slack.PostMessage(ctx, channelID, reply)
}

// downloadFirstImage fetches the first image attachment, if any. The second
// return value is the user-facing reply for a download failure.
func (h *SlackWebhookHandler) downloadFirstImage(ctx context.Context, ev *slackevents.MessageEvent) ([]byte, string, error) {
	for _, f := range ev.Files {
		if !strings.HasPrefix(f.Mimetype, "image/") {
			continue
		}

		data, err := h.slack.DownloadFile(ctx, f.URLPrivate)
		if err != nil {
			return nil, replyImageDownloadFailed,
				goerr.Wrap(err, "failed to download slack file", goerr.V("fileID", f.ID))
		}
		return data, "", nil
	}

	return nil, "", nil
}
