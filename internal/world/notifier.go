package world

import (
	"log/slog"

	"github.com/udisondev/otspawn/internal/model"
)

// Notifier delivers world events to observing players.
// The network layer implements it; LogNotifier is used when none is attached.
type Notifier interface {
	CreatureAppeared(observer *model.Player, m *model.Monster)
	MagicEffect(observer *model.Player, pos model.Position, effect model.MagicEffect)
}

// LogNotifier writes world events to slog at debug level.
type LogNotifier struct{}

func (LogNotifier) CreatureAppeared(observer *model.Player, m *model.Monster) {
	slog.Debug("creature appeared",
		"observer", observer.Name(),
		"monster", m.Name(),
		"objectID", m.ObjectID(),
		"position", m.Position())
}

func (LogNotifier) MagicEffect(observer *model.Player, pos model.Position, effect model.MagicEffect) {
	slog.Debug("magic effect",
		"observer", observer.Name(),
		"position", pos,
		"effect", effect)
}

type nopNotifier struct{}

func (nopNotifier) CreatureAppeared(*model.Player, *model.Monster)               {}
func (nopNotifier) MagicEffect(*model.Player, model.Position, model.MagicEffect) {}
