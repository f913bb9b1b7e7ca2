// Package discord adapts the Discord gateway to the bot core. The core only
// sees message text plus origin identifiers; everything Discord-specific
// stays in this package.
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/xid"

	"github.com/T-One/krang/internal/bot"
	"github.com/T-One/krang/internal/errors"
	"github.com/T-One/krang/internal/logger"
)

// Gateway owns the Discord session and routes inbound messages through the
// access filter, parser and dispatcher.
type Gateway struct {
	session    *discordgo.Session
	filter     *bot.AccessFilter
	dispatcher *bot.Dispatcher

	// ctx is the process context; handlers use it so in-flight dispatches
	// are cancelled on shutdown.
	ctx context.Context
}

// New creates a gateway for the given bot token. The token is held by the
// session only and is never logged.
func New(token string, filter *bot.AccessFilter, dispatcher *bot.Dispatcher) (*Gateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDiscordConnect, "failed to create discord session", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Gateway{
		session:    session,
		filter:     filter,
		dispatcher: dispatcher,
	}, nil
}

// Run opens the gateway connection and blocks until ctx is cancelled.
func (g *Gateway) Run(ctx context.Context) error {
	g.ctx = ctx
	g.session.AddHandler(g.onReady)
	g.session.AddHandler(g.onMessageCreate)

	if err := g.session.Open(); err != nil {
		return errors.Wrap(errors.ErrDiscordConnect, "failed to open discord gateway", err)
	}

	<-ctx.Done()

	logger.Info("Closing discord gateway")
	return g.session.Close()
}

func (g *Gateway) onReady(s *discordgo.Session, r *discordgo.Ready) {
	logger.WithFields(logger.Fields{
		"user": r.User.Username,
		"id":   r.User.ID,
	}).Info("Logged in to discord")
}

// onMessageCreate handles one inbound message. The session delivers events
// concurrently; the dispatcher is safe for that.
func (g *Gateway) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	// Unauthorized origins are dropped without a reply so the bot's
	// presence is not revealed outside its allowed channels.
	if !g.filter.Allowed(m.GuildID, m.ChannelID) {
		return
	}

	inv, err := bot.Parse(m.Content, s.State.User.ID)

	var res *bot.Result
	if err != nil {
		if errors.HasCode(err, errors.ErrNotAddressed) {
			return
		}
		res = g.dispatcher.ParseErrorResult(err)
	} else {
		inv.ID = xid.New().String()
		inv.OriginID = m.GuildID
		inv.ChannelID = m.ChannelID
		inv.AuthorID = m.Author.ID

		logger.WithFields(logger.Fields{
			"invocation": inv.ID,
			"verb":       string(inv.Verb),
			"arg":        inv.Arg,
			"author":     inv.AuthorID,
			"channel":    inv.ChannelID,
		}).Info("Dispatching command")

		res = g.dispatcher.Dispatch(g.ctx, inv)
	}

	g.reply(m.ChannelID, bot.Format(res))
}

// reply sends text to a channel, logging failures instead of surfacing them.
func (g *Gateway) reply(channelID, text string) {
	if text == "" {
		return
	}
	if _, err := g.session.ChannelMessageSend(channelID, text); err != nil {
		logger.WithError(err).WithField("channel", channelID).Warn("failed to send reply")
	}
}
