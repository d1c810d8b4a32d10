package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradeguard/internal/dashboard"
	"tradeguard/internal/domain"
	"tradeguard/internal/logger"

	tele "gopkg.in/telebot.v3"
)

// Dashboard is the orchestrator surface the bot needs.
type Dashboard interface {
	State() domain.DashboardState
	Refresh(ctx context.Context) (domain.DashboardState, error)
}

// StartTelegramBot registers the command handlers and starts long polling. It
// returns nil when no token is configured.
func StartTelegramBot(token string, dash Dashboard) *AlertDispatcher {
	log := logger.Component("telegram")
	if strings.TrimSpace(token) == "" {
		log.Info().Msg("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Telegram bot")
		return nil
	}
	alerts := NewAlertDispatcher(b)

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/snapshot", func(c tele.Context) error {
		return c.Send(formatSnapshot(dash.State().Snapshot))
	})

	b.Handle("/signals", func(c tele.Context) error {
		asset, err := parseSignalArgs(c.Args())
		if err != nil {
			return c.Send("Usage: /signals | /signals INDEX | /signals DOLLAR")
		}
		return c.Send(formatSignalList(dash.State().Signals, asset))
	})

	b.Handle("/intervention", func(c tele.Context) error {
		return c.Send("BCB intervention:\n" + dash.State().InterventionText())
	})

	b.Handle("/refresh", func(c tele.Context) error {
		_ = c.Notify(tele.Typing)
		state, err := dash.Refresh(context.Background())
		return c.Send(refreshReply(state, err))
	})

	b.Handle("/alerts", func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return c.Send("Unable to detect chat")
		}

		mode, err := parseAlertMode(c.Args())
		if err != nil {
			return c.Send("Usage: /alerts on | /alerts off | /alerts status")
		}

		switch mode {
		case "on":
			if alerts.Subscribe(chat.ID) {
				return c.Send("Refresh alerts enabled for this chat.")
			}
			return c.Send("Refresh alerts are already enabled for this chat.")
		case "off":
			if alerts.Unsubscribe(chat.ID) {
				return c.Send("Refresh alerts disabled for this chat.")
			}
			return c.Send("Refresh alerts are already disabled for this chat.")
		default:
			if alerts.IsSubscribed(chat.ID) {
				return c.Send("Alerts status: ON")
			}
			return c.Send("Alerts status: OFF")
		}
	})

	log.Info().Msg("Telegram bot started")
	go b.Start()
	return alerts
}

func refreshReply(state domain.DashboardState, err error) string {
	switch {
	case err == nil:
		return formatSnapshot(state.Snapshot) + "\n\n" + formatSignalList(state.Signals, "")
	case errors.Is(err, dashboard.ErrRefreshInProgress):
		return "A refresh is already running. Try /signals in a moment."
	default:
		return fmt.Sprintf("Refresh failed, showing previous values.\n%v", err)
	}
}

// parseSignalArgs returns the asset filter, or "" for all assets.
func parseSignalArgs(args []string) (domain.Asset, error) {
	var asset domain.Asset
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if asset != "" {
			return "", errors.New("multiple assets provided")
		}
		candidate := domain.Asset(strings.ToUpper(arg))
		if !candidate.IsValid() {
			return "", errors.New("unsupported asset")
		}
		asset = candidate
	}
	return asset, nil
}

func formatSnapshot(s domain.MarketSnapshot) string {
	lines := []string{
		"Market snapshot (" + s.LastUpdate + ")",
		fmt.Sprintf("VIX: %.2f", s.VIX),
		fmt.Sprintf("DXY: %.2f", s.DXY),
		fmt.Sprintf("DI: %.2f%%", s.DIRate),
		fmt.Sprintf("WIN: %.0f pts", s.Index),
		fmt.Sprintf("WDO: R$ %.3f", s.Dollar),
		fmt.Sprintf("BCB swaps: %d", s.SwapContracts),
	}
	return strings.Join(lines, "\n")
}

func formatSignalList(signals []domain.TradingSignal, asset domain.Asset) string {
	lines := []string{"Latest signals:"}
	for _, s := range signals {
		if asset != "" && s.Asset != asset {
			continue
		}
		lines = append(lines, formatSignal(s))
	}
	if len(lines) == 1 {
		return "No signals right now. Use /refresh to run an analysis."
	}
	return strings.Join(lines, "\n")
}

func formatSignal(s domain.TradingSignal) string {
	badge := ""
	if s.IsHighConfidence() {
		badge = " [HIGH PROBABILITY]"
	}
	return fmt.Sprintf("%s %s %d%%%s at %s\n  %s",
		s.Asset, s.Action, s.ConfidencePct(), badge, s.Timestamp, s.Reasoning)
}
