package duct

import "errors"

const defaultLang = "en"

var messages = map[string]map[string]string{
	"en": {
		string(KindTonsRequired):      "Enter equipment tons.",
		string(KindTonsInvalidFormat): "Invalid tons format.",
		string(KindTonsNotPositive):   "Tons must be a number greater than 0.",
		string(KindNoValidDucts):      "No valid ducts with quantity > 0 were found.",
		"error_calc":                  "An error occurred during calculation. Check inputs and try again.",
		"unknown_preset":              "Unknown preset.",
		string(VerdictGood):           "Good",
		string(VerdictUndersized):     "Undersized",
		string(VerdictOversized):      "Oversized",
		"title":                       "Duct CFM calculation",
		"tons":                        "Tons",
		"cfm_per_ton":                 "CFM per ton",
		"required_cfm":                "Required CFM",
		"range":                       "Acceptable range",
		"supply_total":                "Supply total CFM",
		"return_total":                "Return total CFM",
		"system_total":                "System total CFM",
		"side":                        "Side",
		"diameter":                    "Diam",
		"type":                        "Type",
		"qty":                         "Qty",
		"cfm_per_unit":                "CFM/unit",
		"subtotal":                    "Subtotal",
	},
	"es": {
		string(KindTonsRequired):      "Ingrese las toneladas del equipo.",
		string(KindTonsInvalidFormat): "Formato de toneladas inválido.",
		string(KindTonsNotPositive):   "Las toneladas deben ser un número mayor que 0.",
		string(KindNoValidDucts):      "No se encontraron ductos válidos con cantidad mayor a 0.",
		"error_calc":                  "Ocurrió un error durante el cálculo. Revise los datos e intente de nuevo.",
		"unknown_preset":              "Ajuste predefinido desconocido.",
		string(VerdictGood):           "Bien",
		string(VerdictUndersized):     "Subdimensionado",
		string(VerdictOversized):      "Sobredimensionado",
		"title":                       "Cálculo de CFM de ductos",
		"tons":                        "Toneladas",
		"cfm_per_ton":                 "CFM por tonelada",
		"required_cfm":                "CFM requerido",
		"range":                       "Rango aceptable",
		"supply_total":                "CFM total suministro",
		"return_total":                "CFM total retorno",
		"system_total":                "CFM total sistema",
		"side":                        "Lado",
		"diameter":                    "Diám",
		"type":                        "Tipo",
		"qty":                         "Cant",
		"cfm_per_unit":                "CFM/unid",
		"subtotal":                    "Subtotal",
	},
}

// NormalizeLang returns lang when messages exist for it, otherwise English.
func NormalizeLang(lang string) string {
	if _, ok := messages[lang]; ok {
		return lang
	}
	return defaultLang
}

func message(lang, key string) string {
	return messages[NormalizeLang(lang)][key]
}

// Label is the display text for a result field in lang.
func Label(lang, key string) string {
	return message(lang, key)
}

// VerdictLabel is the display text for v in lang.
func VerdictLabel(lang string, v Verdict) string {
	return message(lang, string(v))
}

// ErrorMessage maps a calculation error to user-facing text in lang.
func ErrorMessage(lang string, err error) string {
	if kind, ok := KindOf(err); ok {
		return message(lang, string(kind))
	}
	if errors.Is(err, ErrUnknownPreset) {
		return message(lang, "unknown_preset")
	}
	return message(lang, "error_calc")
}
