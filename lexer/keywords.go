package lexer

// kwEntry is a keyword table entry.
type kwEntry struct {
	word string
	tok  TokenType
}

// Keywords organized by string length for fast dispatch.
// The lexer lowercases the candidate before lookup.
var keywordsByLen [16][]kwEntry

func init() {
	words := []kwEntry{
		{"and", AND},
		{"as", AS},
		{"by", BY},
		{"constraint", CONSTRAINT},
		{"create", CREATE},
		{"from", FROM},
		{"group", GROUP},
		{"having", HAVING},
		{"insert", INSERT},
		{"into", INTO},
		{"key", KEY},
		{"null", NULL_KW},
		{"or", OR},
		{"primary", PRIMARY},
		{"references", REFERENCES},
		{"select", SELECT},
		{"table", TABLE},
		{"unique", UNIQUE},
		{"values", VALUES},
		{"where", WHERE},
	}
	for _, e := range words {
		l := len(e.word)
		if l < len(keywordsByLen) {
			keywordsByLen[l] = append(keywordsByLen[l], e)
		}
	}
}

// lookupKeyword returns the token for a keyword, or IDENT if not found.
// val must be lowercase. This function performs zero allocations.
func lookupKeyword(val []byte) TokenType {
	l := len(val)
	if l == 0 || l >= len(keywordsByLen) {
		return IDENT
	}
	bucket := keywordsByLen[l]
	for i := range bucket {
		if bytesEqualString(val, bucket[i].word) {
			return bucket[i].tok
		}
	}
	return IDENT
}

// IsKeyword reports whether word (in any case) is a reserved word, i.e.
// whether it must be quoted to be used as an identifier.
func IsKeyword(word string) bool {
	if len(word) == 0 || len(word) >= len(keywordsByLen) {
		return false
	}
	var buf [len(keywordsByLen)]byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c >= 'A' && c <= 'Z' {
			c += 32
		}
		buf[i] = c
	}
	return lookupKeyword(buf[:len(word)]) != IDENT
}

func bytesEqualString(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := 0; i < len(b); i++ {
		if b[i] != s[i] {
			return false
		}
	}
	return true
}
