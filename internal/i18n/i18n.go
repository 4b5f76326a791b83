// Package i18n holds the screens' message catalog and picks a language per request.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	// LangParam selects a language explicitly.
	LangParam = "lang"
	// LangCookieName remembers the visitor's choice.
	LangCookieName = "ap_lang"
)

// Supported lists the screen languages; the first is the default.
var Supported = []language.Tag{language.Japanese, language.English}

var (
	matcher = language.NewMatcher(Supported)
	builder = newCatalog()
)

// Default returns the fallback language.
func Default() language.Tag { return Supported[0] }

// Printer returns a printer bound to the screens' catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(builder))
}

// Resolve picks the best supported tag from an explicit choice, a cookie and
// an Accept-Language header, in that order.
func Resolve(explicit, cookie, acceptLanguage string) language.Tag {
	for _, raw := range []string{explicit, cookie} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if tag, err := language.Parse(raw); err == nil {
			return match(tag)
		}
	}
	if accept := strings.TrimSpace(acceptLanguage); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return match(tags...)
		}
	}
	return Default()
}

func match(tags ...language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return Supported[idx]
}

// Keys are the English text.
var japanese = map[string]string{
	// validation
	"This field is required":              "必須項目です",
	"Enter at most %d characters":         "%d文字以内で入力してください",
	"Enter at least %d characters":        "%d文字以上で入力してください",
	"The email address format is invalid": "メールアドレスの形式が違います",
	"Use half-width letters and digits with at least one uppercase letter": "半角英数字かつ少なくとも1つの大文字を含めてください",
	"Passwords do not match":             "パスワードが一致しません",
	"Please make a selection":            "選択してください",
	"Enter a number between %s and %s":   "%s〜%sの範囲で入力してください",
	"Enter a valid number":               "数値を入力してください",
	"This value is invalid":              "入力内容が正しくありません",
	"This address is already in use":     "このアドレスはすでに使用されています",

	// notices
	"Signed in":                           "ログイン成功",
	"You have signed in successfully.":    "ログインが成功しました。",
	"Sign-in failed":                      "ログイン失敗",
	"Could not sign in.":                  "ログインに失敗しました。",
	"Registered":                          "登録完了",
	"Your account has been created.":      "アカウントが作成されました。",
	"Registration failed":                 "登録失敗",
	"Could not create the account.":       "アカウントの作成に失敗しました。",
	"Error":                               "エラー",
	"A network error occurred.":           "ネットワークエラーが発生しました。",
	"Please wait":                         "お待ちください",
	"Your previous request is still being processed.": "前のリクエストを処理中です。",
	"Please start again":                              "最初からやり直してください",
	"Your session has expired. Please enter your details again.": "セッションの有効期限が切れました。もう一度入力してください。",

	// screen labels
	"Sign in":                      "ログイン",
	"Sign up":                      "新規登録",
	"Email address":                "メールアドレス",
	"Password":                     "パスワード",
	"Confirm password":             "パスワード確認",
	"Show":                         "Show",
	"Hide":                         "Hide",
	"Next":                         "次へ",
	"Continue":                     "続ける",
	"You will be taken to the next page shortly.": "まもなく次のページへ移動します。",
	"Back":                         "戻る",
	"Register":                     "登録",
	"New here? Sign up":            "新規登録はこちらから",
	"Already registered? Sign in":  "ログインはこちらから",
	"Gender":                       "性別",
	"Male":                         "男性",
	"Female":                       "女性",
	"Other":                        "その他",
	"Language":                     "言語",
	"Japanese":                     "日本語",
	"English":                      "English",
	"Date of birth":                "生年月日",
	"Year":                         "年",
	"Month":                        "月",
	"Day":                          "日",
	"Family name":                  "姓",
	"Given name":                   "名",
}

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(Default()))
	for key, ja := range japanese {
		_ = b.SetString(language.Japanese, key, ja)
		_ = b.SetString(language.English, key, key)
	}
	return b
}
