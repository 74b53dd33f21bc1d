package facts

// Asset names inside the bundle handed to NewRegistry. Templates are PNG,
// models are ONNX.
const (
	TemplateEscSetting   = "templates/esc_setting.png"
	TemplateEscMenu      = "templates/esc_menu.png"
	TemplateEscEvent     = "templates/esc_event.png"
	TemplateEscCommunity = "templates/esc_community.png"
	TemplateEscCharacter = "templates/esc_character.png"
	TemplateEscOK        = "templates/esc_ok.png"
	TemplateEscCancel    = "templates/esc_cancel.png"

	TemplateEliteBossBar1 = "templates/elite_boss_bar_1.png"
	TemplateEliteBossBar2 = "templates/elite_boss_bar_2.png"

	TemplatePortal             = "templates/portal.png"
	TemplateRune               = "templates/rune.png"
	TemplatePlayerDefaultRatio = "templates/player_default_ratio.png"
	TemplatePlayerIdealRatio   = "templates/player_ideal_ratio.png"
	TemplateTomb               = "templates/tomb.png"
	TemplateCashShop           = "templates/cash_shop.png"
	TemplateErdaShower         = "templates/erda_shower.png"

	TemplateHPStart      = "templates/hp_start.png"
	TemplateHPEnd        = "templates/hp_end.png"
	TemplateHPSeparator1 = "templates/hp_separator_1.png"
	TemplateHPSeparator2 = "templates/hp_separator_2.png"
	TemplateHPShield     = "templates/hp_shield.png"

	TemplateRuneBuff                    = "templates/buffs/rune.png"
	TemplateSayramElixirBuff            = "templates/buffs/sayram_elixir.png"
	TemplateAureliaElixirBuff           = "templates/buffs/aurelia_elixir.png"
	TemplateExpCouponX3Buff             = "templates/buffs/exp_coupon_x3.png"
	TemplateBonusExpCouponBuff          = "templates/buffs/bonus_exp_coupon.png"
	TemplateLegionWealthBuff            = "templates/buffs/legion_wealth.png"
	TemplateLegionLuckBuff              = "templates/buffs/legion_luck.png"
	TemplateWealthExpPotionMask         = "templates/buffs/wealth_exp_potion_mask.png"
	TemplateWealthAcquisitionPotionBuff = "templates/buffs/wealth_acquisition_potion.png"
	TemplateExpAccumulationPotionBuff   = "templates/buffs/exp_accumulation_potion.png"
	TemplateExtremeRedPotionBuff        = "templates/buffs/extreme_red_potion.png"
	TemplateExtremeBluePotionBuff       = "templates/buffs/extreme_blue_potion.png"
	TemplateExtremeGreenPotionBuff      = "templates/buffs/extreme_green_potion.png"
	TemplateExtremeGoldPotionBuff       = "templates/buffs/extreme_gold_potion.png"
)

var escTemplates = []string{
	TemplateEscSetting,
	TemplateEscMenu,
	TemplateEscEvent,
	TemplateEscCommunity,
	TemplateEscCharacter,
	TemplateEscOK,
	TemplateEscCancel,
}

// Model names a bundled ONNX network.
type Model string

const (
	ModelMinimap Model = "models/minimap.onnx"
	ModelMob     Model = "models/mob.onnx"
	ModelRune    Model = "models/rune.onnx"
	ModelText    Model = "models/text_detection.onnx"
)

// Models lists every bundled network.
var Models = []Model{ModelMinimap, ModelMob, ModelRune, ModelText}
