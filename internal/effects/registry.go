// Package effects holds the concrete item, trait and champion ability
// bundles plugged into the combat engine.
package effects

import (
	"go.uber.org/zap"

	"hexbattle/internal/combat"
)

// NewRegistry returns a registry with every bundle in this package.
func NewRegistry() *combat.Registry {
	r := combat.NewRegistry()
	for id, h := range itemHooks() {
		r.Items[id] = h
	}
	for name, h := range traitHooks() {
		r.Traits[name] = h
	}
	for name, fn := range abilities() {
		r.Abilities[name] = fn
	}
	return r
}

// itemValues reads keys from the item's effect table. Any missing key logs
// a warning and makes the caller skip the effect.
func itemValues(b *combat.Battle, it *combat.ItemInstance, keys ...string) ([]float64, bool) {
	out := make([]float64, len(keys))
	var missing []string
	for i, k := range keys {
		v, ok := it.Data.Effect(k)
		if !ok {
			missing = append(missing, k)
			continue
		}
		out[i] = v
	}
	if len(missing) > 0 {
		b.Logger().Warn("item effect data missing",
			zap.String("item", it.Data.ID), zap.Strings("keys", missing))
		return nil, false
	}
	return out, true
}

func traitValues(b *combat.Battle, trait string, effect *combat.TraitEffect, keys ...string) ([]float64, bool) {
	out := make([]float64, len(keys))
	var missing []string
	for i, k := range keys {
		v, ok := effect.Var(k)
		if !ok {
			missing = append(missing, k)
			continue
		}
		out[i] = v
	}
	if len(missing) > 0 {
		b.Logger().Warn("trait effect data missing",
			zap.String("trait", trait), zap.Strings("keys", missing))
		return nil, false
	}
	return out, true
}

func spellValues(b *combat.Battle, u *combat.Unit, keys ...string) ([]float64, bool) {
	out := make([]float64, len(keys))
	var missing []string
	for i, k := range keys {
		v, ok := u.SpellValue(k)
		if !ok {
			missing = append(missing, k)
			continue
		}
		out[i] = v
	}
	if len(missing) > 0 {
		b.Logger().Warn("spell data missing",
			zap.String("champion", u.Name), zap.Strings("keys", missing))
		return nil, false
	}
	return out, true
}
