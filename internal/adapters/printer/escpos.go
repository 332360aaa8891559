package printer

// Comandos ESC/POS usados por los tickets. Solo el subconjunto que soportan
// las impresoras térmicas de 58mm baratas (perfil POS-5890).
var (
	cmdInit        = []byte{0x1b, 0x40}       // ESC @
	cmdAlignLeft   = []byte{0x1b, 0x61, 0x00} // ESC a 0
	cmdAlignCenter = []byte{0x1b, 0x61, 0x01} // ESC a 1
	cmdFontA       = []byte{0x1b, 0x4d, 0x00} // ESC M 0
	cmdFontB       = []byte{0x1b, 0x4d, 0x01} // ESC M 1
	cmdBoldOn      = []byte{0x1b, 0x45, 0x01} // ESC E 1
	cmdBoldOff     = []byte{0x1b, 0x45, 0x00} // ESC E 0
	cmdCodePage858 = []byte{0x1b, 0x74, 0x13} // ESC t 19 → PC858 (tiene £ y €)
	cmdPartialCut  = []byte{0x1d, 0x56, 0x01} // GS V 1
)

// cmdFeed devuelve ESC d n: avanza n líneas.
func cmdFeed(n byte) []byte {
	return []byte{0x1b, 0x64, n}
}
