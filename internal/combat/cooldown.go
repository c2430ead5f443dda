package combat

import "go.uber.org/zap"

// CheckCooldown gates an item proc by the cooldown (seconds) stored under
// key in the item's effects ("ICD" when key is empty). When instant is
// false the very first call only starts the cooldown. A missing key is
// logged and treated as ready.
func (b *Battle) CheckCooldown(u *Unit, item *ItemInstance, instant bool, key string) bool {
	if key == "" {
		key = "ICD"
	}
	seconds, ok := item.Data.Effect(key)
	if !ok {
		b.log.Warn("item cooldown missing", zap.String("item", item.Data.ID), zap.String("key", key))
		return true
	}
	now := b.Now()
	checkKey := u.ID + "|" + item.Key
	last, seen := b.cooldowns[checkKey]
	if seen && now < last+seconds*1000 {
		return false
	}
	b.cooldowns[checkKey] = now
	return instant || seen
}
