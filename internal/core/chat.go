package core

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
)

const (
	botMessageSubtype = "bot_message"
	successReaction   = ":waiwai:"
	failureReaction   = ":cry:"
)

// Message is an incoming chat event.
type Message struct {
	Team    string `json:"team" validate:"required"`
	Channel string `json:"channel"`
	User    string `json:"user"`
	Subtype string `json:"subtype"`
	Text    string `json:"text" validate:"required"`
}

// Reply is posted back to the channel the message came from.
type Reply struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func triggerPattern(trigger string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)^` + regexp.QuoteMeta(trigger) + `\s(.*)$`)
}

// HandleMessage answers a chat message addressed to the bot. It returns a nil
// reply for messages the bot ignores.
func (service *CoreService) HandleMessage(ctx context.Context, msg Message) (*Reply, error) {
	if msg.Subtype == botMessageSubtype {
		return nil, nil
	}
	if service.config.Channel != "" && msg.Channel != service.config.Channel {
		return nil, nil
	}
	match := service.trigger.FindStringSubmatch(msg.Text)
	if match == nil {
		return nil, nil
	}
	command := match[1]

	decision, err := service.limiter.Allow(ctx, msg.Team+":"+msg.User)
	if err != nil {
		slog.Warn("rate limiter unavailable, allowing command", "error", err)
	} else if !decision.Allowed {
		service.metrics.rateLimitRejected.Inc()
		slog.Info("command rate limited", "team", msg.Team, "user", msg.User, "retry_after", decision.RetryAfter)
		return &Reply{Text: fmt.Sprintf("Too many commands, try again in %s %s",
			decision.RetryAfter.Round(time.Second), failureReaction)}, nil
	}

	result, err := service.Transform(ctx, msg.Team, command)
	if err != nil {
		return &Reply{Text: service.errorText(err)}, nil
	}

	url, err := service.Publish(ctx, result)
	if err != nil {
		slog.Error("failed to publish result", "team", msg.Team, "error", err)
		return &Reply{Text: service.errorText(err)}, nil
	}
	return &Reply{Text: successReaction, ImageURL: url}, nil
}

func (service *CoreService) errorText(err error) string {
	e := filterstructure.AsError(err)
	text := e.Error()
	if e.Kind == filterstructure.KindInternal {
		text += fmt.Sprintf("\nPlease inform %s.", service.config.Maintainer)
	}
	return text + " " + failureReaction
}
