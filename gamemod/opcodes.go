package gamemod

// Section ids.
const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionMemory   byte = 5
	sectionGlobal   byte = 6
	sectionExport   byte = 7
	sectionCode     byte = 10
	sectionData     byte = 11
)

// Import/export kinds.
const (
	kindFunc   byte = 0x00
	kindMemory byte = 0x02
)

const (
	funcTypeByte byte = 0x60
	blockVoid    byte = 0x40
)

// Opcodes used by the spinner bodies.
const (
	opUnreachable byte = 0x00
	opIf          byte = 0x04
	opEnd         byte = 0x0b
	opReturn      byte = 0x0f
	opCall        byte = 0x10
	opLocalGet    byte = 0x20
	opGlobalGet   byte = 0x23
	opGlobalSet   byte = 0x24
	opI32Load8U   byte = 0x2d
	opI32Store8   byte = 0x3a
	opI32Const    byte = 0x41
	opI32Eq       byte = 0x46
	opI32Ne       byte = 0x47
	opI32Add      byte = 0x6a
	opI32RemU     byte = 0x70
	opI32And      byte = 0x71
)
