package game

// Vitals tracks current and maximum hit points. The zero value means the
// character has not been initialized yet; once initialized, MaxHP is
// positive and 0 <= HP <= MaxHP holds after every mutation.
type Vitals struct {
	HP    int
	MaxHP int
}

// TakeDamage reduces HP by amount, never below zero, and returns the damage
// actually applied. Negative amounts are treated as zero.
func (v *Vitals) TakeDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	applied := min(v.HP, amount)
	v.HP -= applied
	return applied
}

// Heal raises HP by amount, never above MaxHP, and returns the amount
// actually restored. Negative amounts are treated as zero.
func (v *Vitals) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	applied := min(v.MaxHP-v.HP, amount)
	v.HP += applied
	return applied
}

// SetHP pins HP to an absolute value, clamped into [0, MaxHP]. Used when the
// narrator states the final HP value directly.
func (v *Vitals) SetHP(hp int) {
	if hp < 0 {
		hp = 0
	}
	v.HP = min(hp, v.MaxHP)
}

// Dead reports whether the character is out of hit points.
func (v *Vitals) Dead() bool {
	return v.HP <= 0
}
