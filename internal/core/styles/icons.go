package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconProfile   = "\uf007"     // 
	IconBusiness  = "\U000F0A0E" // 󰨎
	IconSettings  = "\uf013"     // 
	IconAssistant = "\U000F06A9" // 󰚩
	IconLoyalty   = "\U000F0CCC" // 󰳌
	IconCard      = "\uf09d"     // 
	IconWarning   = "\uf071"     // 
)

// Notification icons.
var (
	IconNotifyInfo    = "\uf05a" // 
	IconNotifyWarning = "\uf071" // 
	IconNotifyError   = "\uf057" // 
)

// Direction arrows used in action hints.
var (
	ArrowUp    = "↑"
	ArrowDown  = "↓"
	ArrowLeft  = "←"
	ArrowRight = "→"
)

// CardIcon returns the icon for a card type name.
func CardIcon(cardType string) string {
	switch cardType {
	case "profile":
		return IconProfile
	case "business_id":
		return IconBusiness
	case "settings":
		return IconSettings
	case "ai_assistant":
		return IconAssistant
	case "loyalty":
		return IconLoyalty
	default:
		return IconCard
	}
}

// Arrow returns the arrow glyph for a direction name.
func Arrow(dir string) string {
	switch dir {
	case "up":
		return ArrowUp
	case "down":
		return ArrowDown
	case "left":
		return ArrowLeft
	case "right":
		return ArrowRight
	default:
		return ""
	}
}
