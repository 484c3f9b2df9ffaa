package templates

import (
	"time"
)

// Brand carries the sender details shared by every email.
type Brand struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
	PrivacyURL     string
	UnsubscribeURL string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithChanges(ch []string) Option {
	return func(d *EmailData) { d.Changes = ch }
}

func WithDocumentType(kind string) Option {
	return func(d *EmailData) { d.DocumentType = kind }
}

// NewBaseEmailData fills the brand fields, then applies the options.
func NewBaseEmailData(b Brand, typ, username, email string, opts ...Option) EmailData {
	d := EmailData{
		Username:       username,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		AppName:        b.AppName,

		LogoURL:        b.LogoURL,
		SupportURL:     b.SupportURL,
		PrivacyURL:     b.PrivacyURL,
		UnsubscribeURL: b.UnsubscribeURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
