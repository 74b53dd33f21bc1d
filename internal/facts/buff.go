package facts

import (
	"fmt"
	"strings"
)

// BuffKind identifies a status effect shown in the buff tray.
type BuffKind int

const (
	BuffRune BuffKind = iota
	BuffSayramElixir
	BuffAureliaElixir
	BuffExpCouponX3
	BuffBonusExpCoupon
	BuffLegionWealth
	BuffLegionLuck
	BuffWealthAcquisitionPotion
	BuffExpAccumulationPotion
	BuffExtremeRedPotion
	BuffExtremeBluePotion
	BuffExtremeGreenPotion
	BuffExtremeGoldPotion
)

// BuffKinds lists every kind in declaration order.
var BuffKinds = []BuffKind{
	BuffRune,
	BuffSayramElixir,
	BuffAureliaElixir,
	BuffExpCouponX3,
	BuffBonusExpCoupon,
	BuffLegionWealth,
	BuffLegionLuck,
	BuffWealthAcquisitionPotion,
	BuffExpAccumulationPotion,
	BuffExtremeRedPotion,
	BuffExtremeBluePotion,
	BuffExtremeGreenPotion,
	BuffExtremeGoldPotion,
}

type buffInfo struct {
	name     string
	template string
	color    bool
}

var buffTable = map[BuffKind]buffInfo{
	BuffRune:                    {"rune", TemplateRuneBuff, false},
	BuffSayramElixir:            {"sayram_elixir", TemplateSayramElixirBuff, false},
	BuffAureliaElixir:           {"aurelia_elixir", TemplateAureliaElixirBuff, false},
	BuffExpCouponX3:             {"exp_coupon_x3", TemplateExpCouponX3Buff, false},
	BuffBonusExpCoupon:          {"bonus_exp_coupon", TemplateBonusExpCouponBuff, false},
	BuffLegionWealth:            {"legion_wealth", TemplateLegionWealthBuff, true},
	BuffLegionLuck:              {"legion_luck", TemplateLegionLuckBuff, true},
	BuffWealthAcquisitionPotion: {"wealth_acquisition_potion", TemplateWealthAcquisitionPotionBuff, true},
	BuffExpAccumulationPotion:   {"exp_accumulation_potion", TemplateExpAccumulationPotionBuff, true},
	BuffExtremeRedPotion:        {"extreme_red_potion", TemplateExtremeRedPotionBuff, true},
	BuffExtremeBluePotion:       {"extreme_blue_potion", TemplateExtremeBluePotionBuff, true},
	BuffExtremeGreenPotion:      {"extreme_green_potion", TemplateExtremeGreenPotionBuff, true},
	BuffExtremeGoldPotion:       {"extreme_gold_potion", TemplateExtremeGoldPotionBuff, true},
}

func (k BuffKind) String() string {
	if info, ok := buffTable[k]; ok {
		return info.name
	}
	return fmt.Sprintf("BuffKind(%d)", int(k))
}

// Template returns the asset name of the kind's reference icon.
func (k BuffKind) Template() string {
	return buffTable[k].template
}

// UsesColor reports whether the kind is matched on the colour buff tray
// rather than the grayscale one. Icons that differ mainly by hue need color.
func (k BuffKind) UsesColor() bool {
	return buffTable[k].color
}

// isExpWealthPotion reports whether k is one of the two look-alike potions.
func (k BuffKind) isExpWealthPotion() bool {
	return k == BuffWealthAcquisitionPotion || k == BuffExpAccumulationPotion
}

// ParseBuffKind accepts the names returned by String, case-insensitively.
func ParseBuffKind(s string) (BuffKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range BuffKinds {
		if buffTable[k].name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown buff kind: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k BuffKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *BuffKind) UnmarshalText(b []byte) error {
	v, err := ParseBuffKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
