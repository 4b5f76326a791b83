package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		cookie   string
		accept   string
		want     language.Tag
	}{
		{name: "default", want: language.Japanese},
		{name: "accept english", accept: "en-US,en;q=0.9", want: language.English},
		{name: "accept japanese", accept: "ja-JP", want: language.Japanese},
		{name: "unsupported falls back", accept: "de-DE", want: language.Japanese},
		{name: "cookie beats header", cookie: "en", accept: "ja", want: language.English},
		{name: "explicit beats cookie", explicit: "ja", cookie: "en", want: language.Japanese},
		{name: "garbage explicit ignored", explicit: "!!", accept: "en", want: language.English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.explicit, tt.cookie, tt.accept))
		})
	}
}

func TestPrinterTranslates(t *testing.T) {
	assert.Equal(t, "必須項目です", Printer(language.Japanese).Sprintf("This field is required"))
	assert.Equal(t, "This field is required", Printer(language.English).Sprintf("This field is required"))
	assert.Equal(t, "50文字以内で入力してください", Printer(language.Japanese).Sprintf("Enter at most %d characters", 50))
	assert.Equal(t, "Enter at most 50 characters", Printer(language.English).Sprintf("Enter at most %d characters", 50))
}
