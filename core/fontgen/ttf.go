package fontgen

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"sort"
	"strings"
	"unicode/utf16"
)

// TrueType encoding. Glyph 0 is an empty .notdef; glyph i+1 carries code
// point StartUnicode+i.

const checksumMagic = 0xB1B0AFBA

type headTable struct {
	Version            uint32
	FontRevision       uint32
	ChecksumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64
	XMin, YMin         int16
	XMax, YMax         int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

type hheaTable struct {
	Version             uint32
	Ascender            int16
	Descender           int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	Reserved            [4]int16
	MetricDataFormat    int16
	NumberOfHMetrics    uint16
}

type maxpTable struct {
	Version               uint32
	NumGlyphs             uint16
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

type os2Table struct {
	Version             uint16
	XAvgCharWidth       int16
	WeightClass         uint16
	WidthClass          uint16
	FsType              uint16
	SubscriptXSize      int16
	SubscriptYSize      int16
	SubscriptXOffset    int16
	SubscriptYOffset    int16
	SuperscriptXSize    int16
	SuperscriptYSize    int16
	SuperscriptXOffset  int16
	SuperscriptYOffset  int16
	StrikeoutSize       int16
	StrikeoutPosition   int16
	FamilyClass         int16
	Panose              [10]byte
	UnicodeRange        [4]uint32
	VendorID            [4]byte
	FsSelection         uint16
	FirstCharIndex      uint16
	LastCharIndex       uint16
	TypoAscender        int16
	TypoDescender       int16
	TypoLineGap         int16
	WinAscent           uint16
	WinDescent          uint16
	CodePageRange       [2]uint32
	XHeight             int16
	CapHeight           int16
	DefaultChar         uint16
	BreakChar           uint16
	MaxContext          uint16
}

type postHeader struct {
	Version            uint32
	ItalicAngle        int32
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       uint32
	MinMemType42       uint32
	MaxMemType42       uint32
	MinMemType1        uint32
	MaxMemType1        uint32
}

type fontTable struct {
	tag  string
	data []byte
}

// encodeTTF lays out a complete TrueType font. The output depends only on
// its arguments.
func encodeTTF(opts Options, glyphs []glyphData) ([]byte, error) {
	if opts.FontHeight <= 0 || opts.FontHeight > math.MaxUint16 {
		return nil, fmt.Errorf("font height %d out of range", opts.FontHeight)
	}
	if len(glyphs)+1 > math.MaxUint16 {
		return nil, fmt.Errorf("too many glyphs: %d", len(glyphs))
	}
	last := opts.StartUnicode + rune(len(glyphs)) - 1
	if len(glyphs) > 0 && last > 0xFFFF {
		return nil, fmt.Errorf("code point %U does not fit the character map", last)
	}

	em := uint16(opts.FontHeight)
	all := append([]glyphData{{Name: ".notdef", Advance: em / 2}}, glyphs...)
	m := measure(all)

	glyf, loca := encodeGlyf(all)
	names, err := encodeName(opts)
	if err != nil {
		return nil, err
	}

	tables := []fontTable{
		{"OS/2", encodeOS2(opts, all, m)},
		{"cmap", encodeCmap(opts.StartUnicode, len(glyphs))},
		{"glyf", glyf},
		{"head", encodeHead(opts, m)},
		{"hhea", encodeHhea(opts, all, m)},
		{"hmtx", encodeHmtx(all)},
		{"loca", loca},
		{"maxp", encodeMaxp(all)},
		{"name", names},
		{"post", encodePost(opts, all)},
	}
	return assembleFont(tables), nil
}

type metrics struct {
	xMin, yMin, xMax, yMax int16
	maxAdvance             uint16
	minLSB, minRSB         int16
	maxExtent              int16
}

func measure(glyphs []glyphData) metrics {
	m := metrics{}
	first := true
	for _, g := range glyphs {
		m.maxAdvance = max(m.maxAdvance, g.Advance)
		if len(g.Contours) == 0 {
			continue
		}
		rsb := int16(int(g.Advance) - int(g.XMax))
		if first {
			m.xMin, m.yMin, m.xMax, m.yMax = g.XMin, g.YMin, g.XMax, g.YMax
			m.minLSB, m.minRSB, m.maxExtent = g.XMin, rsb, g.XMax
			first = false
			continue
		}
		m.xMin = min(m.xMin, g.XMin)
		m.yMin = min(m.yMin, g.YMin)
		m.xMax = max(m.xMax, g.XMax)
		m.yMax = max(m.yMax, g.YMax)
		m.minLSB = min(m.minLSB, g.XMin)
		m.minRSB = min(m.minRSB, rsb)
		m.maxExtent = max(m.maxExtent, g.XMax)
	}
	return m
}

func ascent(opts Options) int16 { return int16(opts.FontHeight - opts.Descent) }

func bold(opts Options) bool   { return opts.FontWeight >= 700 }
func italic(opts Options) bool { return strings.EqualFold(opts.FontStyle, "italic") }

func subfamily(opts Options) string {
	switch {
	case bold(opts) && italic(opts):
		return "Bold Italic"
	case bold(opts):
		return "Bold"
	case italic(opts):
		return "Italic"
	}
	return "Regular"
}

func pack(v any) []byte {
	var buf bytes.Buffer
	// Fixed-size values only; bytes.Buffer never fails.
	_ = binary.Write(&buf, binary.BigEndian, v)
	return buf.Bytes()
}

func encodeHead(opts Options, m metrics) []byte {
	var macStyle uint16
	if bold(opts) {
		macStyle |= 1
	}
	if italic(opts) {
		macStyle |= 2
	}
	return pack(headTable{
		Version:           0x00010000,
		FontRevision:      0x00010000,
		MagicNumber:       0x5F0F3CF5,
		Flags:             0x0009,
		UnitsPerEm:        uint16(opts.FontHeight),
		XMin:              m.xMin,
		YMin:              m.yMin,
		XMax:              m.xMax,
		YMax:              m.yMax,
		MacStyle:          macStyle,
		LowestRecPPEM:     8,
		FontDirectionHint: 2,
		IndexToLocFormat:  1,
	})
}

func encodeHhea(opts Options, glyphs []glyphData, m metrics) []byte {
	return pack(hheaTable{
		Version:             0x00010000,
		Ascender:            ascent(opts),
		Descender:           int16(-opts.Descent),
		AdvanceWidthMax:     m.maxAdvance,
		MinLeftSideBearing:  m.minLSB,
		MinRightSideBearing: m.minRSB,
		XMaxExtent:          m.maxExtent,
		CaretSlopeRise:      1,
		NumberOfHMetrics:    uint16(len(glyphs)),
	})
}

func encodeMaxp(glyphs []glyphData) []byte {
	t := maxpTable{Version: 0x00010000, NumGlyphs: uint16(len(glyphs)), MaxZones: 2}
	for _, g := range glyphs {
		t.MaxPoints = max(t.MaxPoints, uint16(g.numPoints()))
		t.MaxContours = max(t.MaxContours, uint16(len(g.Contours)))
	}
	return pack(t)
}

func encodeOS2(opts Options, glyphs []glyphData, m metrics) []byte {
	frac := func(n, d int) int16 { return int16(opts.FontHeight * n / d) }
	var total int
	for _, g := range glyphs {
		total += int(g.Advance)
	}

	selection := uint16(0x40)
	if bold(opts) || italic(opts) {
		selection = 0
		if italic(opts) {
			selection |= 0x01
		}
		if bold(opts) {
			selection |= 0x20
		}
	}

	first, last := uint16(0xFFFF), uint16(0)
	if n := len(glyphs) - 1; n > 0 {
		first = uint16(opts.StartUnicode)
		last = uint16(opts.StartUnicode + rune(n) - 1)
	}

	return pack(os2Table{
		Version:            4,
		XAvgCharWidth:      int16(total / len(glyphs)),
		WeightClass:        uint16(opts.FontWeight),
		WidthClass:         5,
		SubscriptXSize:     frac(13, 20),
		SubscriptYSize:     frac(7, 10),
		SubscriptYOffset:   frac(7, 50),
		SuperscriptXSize:   frac(13, 20),
		SuperscriptYSize:   frac(7, 10),
		SuperscriptYOffset: frac(12, 25),
		StrikeoutSize:      frac(1, 20),
		StrikeoutPosition:  frac(1, 4),
		UnicodeRange:       [4]uint32{0, 1 << 28, 0, 0},
		VendorID:           [4]byte{'I', 'C', 'F', 'Y'},
		FsSelection:        selection,
		FirstCharIndex:     first,
		LastCharIndex:      last,
		TypoAscender:       ascent(opts),
		TypoDescender:      int16(-opts.Descent),
		WinAscent:          uint16(max(ascent(opts), m.yMax)),
		WinDescent:         uint16(max(int16(opts.Descent), -m.yMin)),
		CodePageRange:      [2]uint32{1, 0},
		DefaultChar:        0,
		BreakChar:          0x20,
		MaxContext:         1,
	})
}

func encodeHmtx(glyphs []glyphData) []byte {
	var buf bytes.Buffer
	for _, g := range glyphs {
		lsb := int16(0)
		if len(g.Contours) > 0 {
			lsb = g.XMin
		}
		_ = binary.Write(&buf, binary.BigEndian, [2]int16{int16(g.Advance), lsb})
	}
	return buf.Bytes()
}

type cmapSegment struct {
	start, end uint16
	delta      uint16
}

// encodeCmap writes one format 4 subtable shared by the Unicode and the
// Windows Unicode BMP records.
func encodeCmap(start rune, count int) []byte {
	var segs []cmapSegment
	if count > 0 {
		first := uint16(start)
		segs = append(segs, cmapSegment{
			start: first,
			end:   first + uint16(count) - 1,
			delta: 1 - first,
		})
	}
	segs = append(segs, cmapSegment{start: 0xFFFF, end: 0xFFFF, delta: 1})

	n := len(segs)
	exp := bits.Len(uint(n)) - 1
	searchRange := uint16(2 << exp)

	var sub bytes.Buffer
	w := func(v any) { _ = binary.Write(&sub, binary.BigEndian, v) }
	w([7]uint16{
		4,
		uint16(16 + 8*n),
		0,
		uint16(2 * n),
		searchRange,
		uint16(exp),
		uint16(2*n) - searchRange,
	})
	for _, s := range segs {
		w(s.end)
	}
	w(uint16(0))
	for _, s := range segs {
		w(s.start)
	}
	for _, s := range segs {
		w(s.delta)
	}
	for range segs {
		w(uint16(0))
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, [2]uint16{0, 2})
	const offset = 4 + 2*8
	_ = binary.Write(&buf, binary.BigEndian, [2]uint16{0, 3})
	_ = binary.Write(&buf, binary.BigEndian, uint32(offset))
	_ = binary.Write(&buf, binary.BigEndian, [2]uint16{3, 1})
	_ = binary.Write(&buf, binary.BigEndian, uint32(offset))
	buf.Write(sub.Bytes())
	return buf.Bytes()
}

// encodeGlyf writes simple glyph descriptions with long loca offsets. Every
// coordinate is stored as a two-byte delta.
func encodeGlyf(glyphs []glyphData) (glyf, loca []byte) {
	var gb, lb bytes.Buffer
	w := func(v any) { _ = binary.Write(&gb, binary.BigEndian, v) }

	for _, g := range glyphs {
		_ = binary.Write(&lb, binary.BigEndian, uint32(gb.Len()))
		if len(g.Contours) == 0 {
			continue
		}
		w([5]int16{int16(len(g.Contours)), g.XMin, g.YMin, g.XMax, g.YMax})
		end := -1
		for _, c := range g.Contours {
			end += len(c)
			w(uint16(end))
		}
		w(uint16(0)) // no instructions

		for _, c := range g.Contours {
			for _, p := range c {
				var flag byte
				if p.On {
					flag = 0x01
				}
				gb.WriteByte(flag)
			}
		}
		var prev int16
		for _, c := range g.Contours {
			for _, p := range c {
				w(p.X - prev)
				prev = p.X
			}
		}
		prev = 0
		for _, c := range g.Contours {
			for _, p := range c {
				w(p.Y - prev)
				prev = p.Y
			}
		}
		for gb.Len()%4 != 0 {
			gb.WriteByte(0)
		}
	}
	_ = binary.Write(&lb, binary.BigEndian, uint32(gb.Len()))
	return gb.Bytes(), lb.Bytes()
}

type nameRecord struct {
	id    uint16
	value string
}

func encodeName(opts Options) ([]byte, error) {
	style := subfamily(opts)
	records := []nameRecord{
		{1, opts.FontName},
		{2, style},
		{3, opts.FontName + ":" + style},
		{4, opts.FontName},
		{5, "Version 1.0"},
		{6, postScriptName(opts.FontName)},
	}
	if opts.Metadata != "" {
		records = append(records, nameRecord{10, opts.Metadata})
	}

	var strs bytes.Buffer
	var recs bytes.Buffer
	for _, r := range records {
		units := utf16.Encode([]rune(r.value))
		if 2*len(units) > math.MaxUint16 {
			return nil, fmt.Errorf("name %d is too long", r.id)
		}
		_ = binary.Write(&recs, binary.BigEndian, [6]uint16{
			3, 1, 0x0409, r.id, uint16(2 * len(units)), uint16(strs.Len()),
		})
		_ = binary.Write(&strs, binary.BigEndian, units)
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, [3]uint16{0, uint16(len(records)), uint16(6 + 12*len(records))})
	buf.Write(recs.Bytes())
	buf.Write(strs.Bytes())
	return buf.Bytes(), nil
}

// postScriptName keeps printable ASCII other than the characters PostScript
// reserves, capped at 63 bytes.
func postScriptName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r <= ' ' || r > '~' || strings.ContainsRune("[](){}<>/%", r) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == 63 {
			break
		}
	}
	if b.Len() == 0 {
		return "IconFont"
	}
	return b.String()
}

// encodePost writes a version 2 table so glyph names survive in the binary.
func encodePost(opts Options, glyphs []glyphData) []byte {
	var fixed uint32
	if opts.FixedWidth {
		fixed = 1
	}
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, postHeader{
		Version:            0x00020000,
		UnderlinePosition:  int16(-opts.Descent / 2),
		UnderlineThickness: int16(opts.FontHeight / 20),
		IsFixedPitch:       fixed,
	})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(glyphs)))

	var strs bytes.Buffer
	custom := uint16(258)
	for i, g := range glyphs {
		if i == 0 {
			_ = binary.Write(&buf, binary.BigEndian, uint16(0))
			continue
		}
		_ = binary.Write(&buf, binary.BigEndian, custom)
		custom++
		strs.WriteByte(byte(len(g.Name)))
		strs.WriteString(g.Name)
	}
	buf.Write(strs.Bytes())
	return buf.Bytes()
}

func tableChecksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i < len(data); i += 4 {
		var word [4]byte
		copy(word[:], data[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}

func padded(n int) int { return (n + 3) &^ 3 }

// assembleFont writes the offset table, the table directory and the padded
// tables, then fixes up the head checksum adjustment.
func assembleFont(tables []fontTable) []byte {
	sort.Slice(tables, func(i, j int) bool { return tables[i].tag < tables[j].tag })

	n := len(tables)
	exp := bits.Len(uint(n)) - 1
	searchRange := 16 << exp

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(0x00010000))
	_ = binary.Write(&buf, binary.BigEndian, [4]uint16{
		uint16(n), uint16(searchRange), uint16(exp), uint16(16*n - searchRange),
	})

	offset := 12 + 16*n
	headOffset := -1
	for _, t := range tables {
		if t.tag == "head" {
			headOffset = offset
		}
		buf.WriteString(t.tag)
		_ = binary.Write(&buf, binary.BigEndian, [3]uint32{
			tableChecksum(t.data), uint32(offset), uint32(len(t.data)),
		})
		offset += padded(len(t.data))
	}
	for _, t := range tables {
		buf.Write(t.data)
		buf.Write(make([]byte, padded(len(t.data))-len(t.data)))
	}

	font := buf.Bytes()
	if headOffset >= 0 {
		binary.BigEndian.PutUint32(font[headOffset+8:], checksumMagic-tableChecksum(font))
	}
	return font
}
