package facts

// Thresholds holds every confidence floor and template score the fact
// detectors compare against.
type Thresholds struct {
	EscSettings     float32 `mapstructure:"esc_settings"`
	EliteBossBar    float32 `mapstructure:"elite_boss_bar"`
	Portal          float32 `mapstructure:"portal"`
	Rune            float32 `mapstructure:"rune"`
	PlayerDefault   float32 `mapstructure:"player_default"`
	PlayerIdeal     float32 `mapstructure:"player_ideal"`
	Tomb            float32 `mapstructure:"tomb"`
	CashShop        float32 `mapstructure:"cash_shop"`
	ErdaShower      float32 `mapstructure:"erda_shower"`
	HealthBarEdge   float32 `mapstructure:"health_bar_edge"`
	HealthSeparator float32 `mapstructure:"health_separator"`
	HealthShield    float32 `mapstructure:"health_shield"`
	Mob             float32 `mapstructure:"mob"`
	RuneArrow       float32 `mapstructure:"rune_arrow"`
	Buff            float32 `mapstructure:"buff"`
	AureliaElixir   float32 `mapstructure:"aurelia_elixir"`
	LegionWealth    float32 `mapstructure:"legion_wealth"`
}

// DefaultThresholds returns the tuned values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EscSettings:     0.85,
		EliteBossBar:    0.9,
		Portal:          0.8,
		Rune:            0.6,
		PlayerDefault:   0.6,
		PlayerIdeal:     0.75,
		Tomb:            0.8,
		CashShop:        0.7,
		ErdaShower:      0.96,
		HealthBarEdge:   0.8,
		HealthSeparator: 0.7,
		HealthShield:    0.8,
		Mob:             0.5,
		RuneArrow:       0.8,
		Buff:            0.75,
		AureliaElixir:   0.8,
		LegionWealth:    0.76,
	}
}

// ForBuff returns the template threshold for kind.
func (t Thresholds) ForBuff(kind BuffKind) float32 {
	switch kind {
	case BuffAureliaElixir:
		return t.AureliaElixir
	case BuffLegionWealth:
		return t.LegionWealth
	default:
		return t.Buff
	}
}
