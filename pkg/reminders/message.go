package reminders

import (
	"fmt"
	"strings"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

// RenderMessage produces the notification text for one occurrence,
// localized to the profile's language preference. Pure function: no I/O,
// deterministic for identical inputs.
func RenderMessage(visa *models.Visa, profile *models.Profile, daysBefore int) string {
	name := profile.FullName
	if name == "" {
		name = "User"
	}

	expiryDate := visa.ExpiryDate.Format("January 2, 2006")

	switch profile.LanguagePreference {
	case models.LanguageChinese:
		holder := visa.PersonName
		if holder == "" {
			holder = "您"
		}
		if daysBefore == 0 {
			return fmt.Sprintf("您好 %s，%s的%s%s签证今天到期！请尽快办理续签。",
				name, holder, visa.Country, visa.VisaType)
		}
		return fmt.Sprintf("您好 %s，%s的%s%s签证将在%d天后（%s）到期。请及时办理续签手续。",
			name, holder, visa.Country, visa.VisaType, daysBefore, expiryDate)

	case models.LanguageKhmer:
		holder := visa.PersonName
		if holder == "" {
			holder = "អ្នក"
		}
		if daysBefore == 0 {
			return fmt.Sprintf("សួស្តី %s! ទិដ្ឋាការ%sរបស់%sសម្រាប់%sផុតកំណត់ថ្ងៃនេះ! សូមបន្តវាឱ្យបានឆាប់។",
				name, visa.VisaType, holder, visa.Country)
		}
		return fmt.Sprintf("សួស្តី %s! ទិដ្ឋាការ%sរបស់%sសម្រាប់%sនឹងផុតកំណត់ក្នុងរយៈពេល%dថ្ងៃ (%s)។ សូមបន្តវាឱ្យបានទាន់ពេល។",
			name, visa.VisaType, holder, visa.Country, daysBefore, expiryDate)

	default:
		possessive := "Your"
		if visa.PersonName != "" {
			possessive = visa.PersonName + "'s"
		}
		if daysBefore == 0 {
			return fmt.Sprintf("Hello %s! %s %s %s visa expires TODAY! Please renew it immediately.",
				name, possessive, visa.Country, visa.VisaType)
		}
		return fmt.Sprintf("Hello %s! %s %s %s visa will expire in %d days (%s). Please renew it soon.",
			name, possessive, visa.Country, visa.VisaType, daysBefore, expiryDate)
	}
}

// RenderSubject produces the email subject line, with urgent tone for
// same-day occurrences.
func RenderSubject(visa *models.Visa, daysBefore int) string {
	if daysBefore == 0 {
		return fmt.Sprintf("⚠️ URGENT: %s Visa Expires Today!", visa.Country)
	}
	return fmt.Sprintf("⏰ Reminder: %s Visa Expiring in %d Days", visa.Country, daysBefore)
}

// RenderEmailHTML produces the transactional email body: the rendered
// message followed by a structured visa-detail block.
func RenderEmailHTML(visa *models.Visa, message string) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center;">`)
	b.WriteString(`<h1 style="color: white; margin: 0;">🛂 VisaTrack Reminder</h1>`)
	b.WriteString(`</div>`)
	b.WriteString(`<div style="padding: 30px; background: #f9fafb;">`)
	fmt.Fprintf(&b, `<p style="font-size: 16px; color: #374151;">%s</p>`, message)

	b.WriteString(`<div style="background: white; border-radius: 8px; padding: 20px; margin: 20px 0; border-left: 4px solid #667eea;">`)
	b.WriteString(`<h3 style="margin-top: 0; color: #1f2937;">Visa Details:</h3>`)
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Country:</strong> %s</p>`, visa.Country)
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Type:</strong> %s</p>`, visa.VisaType)
	if visa.VisaNumber != "" {
		fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Number:</strong> %s</p>`, visa.VisaNumber)
	}
	fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Expiry Date:</strong> %s</p>`, visa.ExpiryDate.Format("1/2/2006"))
	if visa.PersonName != "" {
		fmt.Fprintf(&b, `<p style="margin: 5px 0;"><strong>Holder:</strong> %s</p>`, visa.PersonName)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<p style="color: #6b7280; font-size: 14px; margin-top: 30px;">`)
	b.WriteString(`💡 Tip: Contact our verified service providers for quick visa renewal assistance.`)
	b.WriteString(`</p>`)
	b.WriteString(`</div>`)
	b.WriteString(`<div style="background: #1f2937; padding: 20px; text-align: center;">`)
	b.WriteString(`<p style="color: #9ca3af; font-size: 12px; margin: 0;">`)
	b.WriteString(`This is an automated reminder from VisaTrack. You can manage your notification preferences in settings.`)
	b.WriteString(`</p>`)
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)

	return b.String()
}
