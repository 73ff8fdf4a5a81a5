// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/matrix/typeface"
)

// Preset is a named alphabet paired with a font that can draw it.
type Preset struct {
	Name       string
	Characters string
	Font       string
}

var presets = []Preset{
	{Name: "01", Characters: "01", Font: typeface.Mono},
	{
		Name: "katakana",
		Font: typeface.CJK,
		Characters: `アイウエオカキクケコサシスセソタチツテトナニヌ
			ネハヒフヘホマミムメモヤユヨラリルレワヰヱヲン・`,
	},
	{
		// Half-width kana and digits, as in the film.
		Name:       "matrix",
		Font:       typeface.CJK,
		Characters: "ｦｱｳｴｵｶｷｹｺｻｼｽｾｿﾀﾂﾃﾅﾆﾇﾈﾊﾋﾎﾏﾐﾑﾒﾓﾔﾕﾗﾘﾜ012345789Z:.=*+-<>¦|",
	},
	{
		Name: "jiaguwen",
		Font: typeface.CJK,
		Characters: `㐁㐭㓞㕚㕣㚔㚤㛸㝛㝵㠯㦰㦵㨉㪔㪿㫃㯟㯥㱃㱿㲋㳄㳑㹞㺇㻎㽙㿝䇂䊤䍜䍩䎽䖵䡴䢔䮯䲨䵼
			一丁丂七万三上下不丏丐丑且丕丘丙丞並丩中丮丯丰丹主丽乂乃乇之乍乎乘乙九乞乳亅事二
			于云五井亘亙亞亟亡亢亥亦亨享京亯人仄今介从令以任企伇伊伏伐休伯何余作使侃來侖侚供
			侯侵係俘保俞倉倗偁備傳僤允元兄兆先光克兌免兒兔兕入兩八公六兮共兵其具典兹冉册再冎`,
	},
	{
		Name: "zhuanti",
		Font: typeface.CJK,
		Characters: `一乙九了七八厂儿二几力人入十又乃丁卜刀三上下与也之于千及大干工己口山才土小子久丸
			丈勺刃凡亡叉川寸弓巾女尸士夕中不公六切元五今化什反天引少比斗方火毛片气日手水王文
			心月支分丰乏丹予丑勿允互井云匹凶介仇仆仁仍升午友屯夫巨尺巴幻尤孔父斤木牛欠犬氏瓦
			牙止爪且世主包北加出代半去平布市叫可史只它四外本民必正白立目生石示用乎丘丙占刊兄
			印功令付仔失央巧左句古司台右召宁奴犯尼扔汁圣幼冬孕末未旦永甘瓜禾矛母皮甲申田穴玉`,
	},
}

// Presets returns the built-in alphabets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		p.Characters = Sanitize(p.Characters)
		out[i] = p
	}
	return out
}

// LookupPreset returns the preset called name.
func LookupPreset(name string) (Preset, error) {
	i := slices.IndexFunc(presets, func(p Preset) bool { return strings.EqualFold(p.Name, name) })
	if i < 0 {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	p := presets[i]
	p.Characters = Sanitize(p.Characters)
	return p, nil
}

// ApplyPreset replaces the alphabet and the font.
func (c *Config) ApplyPreset(name string) error {
	p, err := LookupPreset(name)
	if err != nil {
		return err
	}
	c.Characters = p.Characters
	if p.Font != "" {
		c.Font = p.Font
	}
	return nil
}

// Sanitize removes whitespace and control characters, converts the
// alphabet to NFC and drops duplicate runes, keeping first occurrences.
func Sanitize(s string) string {
	s = norm.NFC.String(s)
	seen := make(map[rune]bool, len(s))
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == unicode.ReplacementChar || seen[r] {
			continue
		}
		seen[r] = true
		b.WriteRune(r)
	}
	return b.String()
}
