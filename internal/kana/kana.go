// Package kana converts text typed in the reading field into hiragana.
package kana

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

var romaji = map[string]string{
	"a": "あ", "i": "い", "u": "う", "e": "え", "o": "お",
	"ka": "か", "ki": "き", "ku": "く", "ke": "け", "ko": "こ",
	"ga": "が", "gi": "ぎ", "gu": "ぐ", "ge": "げ", "go": "ご",
	"sa": "さ", "si": "し", "shi": "し", "su": "す", "se": "せ", "so": "そ",
	"za": "ざ", "zi": "じ", "ji": "じ", "zu": "ず", "ze": "ぜ", "zo": "ぞ",
	"ta": "た", "ti": "ち", "chi": "ち", "tu": "つ", "tsu": "つ", "te": "て", "to": "と",
	"da": "だ", "di": "ぢ", "du": "づ", "de": "で", "do": "ど",
	"na": "な", "ni": "に", "nu": "ぬ", "ne": "ね", "no": "の",
	"ha": "は", "hi": "ひ", "hu": "ふ", "fu": "ふ", "he": "へ", "ho": "ほ",
	"ba": "ば", "bi": "び", "bu": "ぶ", "be": "べ", "bo": "ぼ",
	"pa": "ぱ", "pi": "ぴ", "pu": "ぷ", "pe": "ぺ", "po": "ぽ",
	"ma": "ま", "mi": "み", "mu": "む", "me": "め", "mo": "も",
	"ya": "や", "yu": "ゆ", "yo": "よ",
	"ra": "ら", "ri": "り", "ru": "る", "re": "れ", "ro": "ろ",
	"wa": "わ", "wi": "ゐ", "we": "ゑ", "wo": "を",
	"nn": "ん", "n'": "ん",
	"kya": "きゃ", "kyu": "きゅ", "kyo": "きょ",
	"gya": "ぎゃ", "gyu": "ぎゅ", "gyo": "ぎょ",
	"sha": "しゃ", "shu": "しゅ", "sho": "しょ", "she": "しぇ",
	"sya": "しゃ", "syu": "しゅ", "syo": "しょ",
	"ja": "じゃ", "ju": "じゅ", "jo": "じょ", "je": "じぇ",
	"jya": "じゃ", "jyu": "じゅ", "jyo": "じょ",
	"zya": "じゃ", "zyu": "じゅ", "zyo": "じょ",
	"cha": "ちゃ", "chu": "ちゅ", "cho": "ちょ", "che": "ちぇ",
	"tya": "ちゃ", "tyu": "ちゅ", "tyo": "ちょ",
	"nya": "にゃ", "nyu": "にゅ", "nyo": "にょ",
	"hya": "ひゃ", "hyu": "ひゅ", "hyo": "ひょ",
	"bya": "びゃ", "byu": "びゅ", "byo": "びょ",
	"pya": "ぴゃ", "pyu": "ぴゅ", "pyo": "ぴょ",
	"mya": "みゃ", "myu": "みゅ", "myo": "みょ",
	"rya": "りゃ", "ryu": "りゅ", "ryo": "りょ",
	"fa": "ふぁ", "fi": "ふぃ", "fe": "ふぇ", "fo": "ふぉ",
	"xa": "ぁ", "xi": "ぃ", "xu": "ぅ", "xe": "ぇ", "xo": "ぉ",
	"xya": "ゃ", "xyu": "ゅ", "xyo": "ょ", "xtu": "っ", "xtsu": "っ",
	"-": "ー",
}

// longest key in the romaji table
const maxChunk = 4

// ToHiragana converts romaji and katakana in s to hiragana. A trailing
// lone "n" becomes ん.
func ToHiragana(s string) string {
	return convert(s, false)
}

// Live converts s while the user is still typing: a trailing "n" is left
// alone because the next keystroke may turn it into な, に and so on.
func Live(s string) string {
	return convert(s, true)
}

func convert(s string, live bool) string {
	s = strings.ToLower(width.Fold.String(s))
	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x80 {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(katakanaToHiragana(r))
			i += size
			continue
		}
		// doubled consonant -> small tsu
		if i+1 < len(s) && c == s[i+1] && isConsonant(c) && c != 'n' {
			b.WriteString("っ")
			i++
			continue
		}
		if c == 'n' {
			if i+1 == len(s) {
				if live {
					b.WriteByte('n')
				} else {
					b.WriteString("ん")
				}
				i++
				continue
			}
			next := s[i+1]
			if next == 'n' && i+2 < len(s) && (isVowel(s[i+2]) || s[i+2] == 'y') {
				// "nna" is ん + な, not ん + あ
				b.WriteString("ん")
				i++
				continue
			}
			if next != 'n' && next != '\'' && next != 'y' && !isVowel(next) {
				b.WriteString("ん")
				i++
				continue
			}
		}
		matched := false
		for l := maxChunk; l > 0; l-- {
			if i+l > len(s) {
				continue
			}
			if k, ok := romaji[s[i:i+l]]; ok {
				b.WriteString(k)
				i += l
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func katakanaToHiragana(r rune) rune {
	if r >= 'ァ' && r <= 'ヶ' {
		return r - 0x60
	}
	return r
}

func isVowel(c byte) bool {
	return strings.IndexByte("aiueo", c) >= 0
}

func isConsonant(c byte) bool {
	return c >= 'a' && c <= 'z' && !isVowel(c)
}
