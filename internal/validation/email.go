package validation

import "strings"

var (
	gmailDomains   = map[string]bool{"gmail.com": true, "googlemail.com": true}
	plusTagDomains = map[string]bool{
		"outlook.com": true, "hotmail.com": true, "live.com": true,
		"icloud.com": true, "me.com": true, "mac.com": true,
	}
	yahooDomains = map[string]bool{
		"yahoo.com": true, "yahoo.fr": true, "yahoo.ca": true, "ymail.com": true, "rocketmail.com": true,
	}
)

// NormalizeEmail canonicalizes an address so that two spellings of the same
// mailbox compare equal: trimmed and lowercased; Gmail drops dots and +tags
// and folds googlemail.com into gmail.com; Outlook/Hotmail/Live/iCloud drop
// +tags; Yahoo drops -tags. Strings without exactly one '@' are only trimmed
// and lowercased.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return email
	}

	switch {
	case gmailDomains[domain]:
		local = cutTag(local, "+")
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	case plusTagDomains[domain]:
		local = cutTag(local, "+")
	case yahooDomains[domain]:
		local = cutTag(local, "-")
	}

	if local == "" {
		return email
	}
	return local + "@" + domain
}

func cutTag(local, sep string) string {
	before, _, _ := strings.Cut(local, sep)
	return before
}
