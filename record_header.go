package f4r

// Record header bit layout.
const (
	compressedHeaderMask = 0x80
	mesgDefinitionMask   = 0x40
	devDataMask          = 0x20
	headerReservedMask   = 0x10
	localMesgNumMask     = 0x0F
)

// RecordHeader is the one-byte header in front of every record.
type RecordHeader struct {
	Definition        bool
	DeveloperDataFlag bool
	Reserved          bool
	LocalMessageType  uint8
}

func decodeRecordHeader(b byte) (RecordHeader, error) {
	if b&compressedHeaderMask != 0 {
		return RecordHeader{}, ErrCompressedTimestamp
	}
	return RecordHeader{
		Definition:        b&mesgDefinitionMask != 0,
		DeveloperDataFlag: b&devDataMask != 0,
		Reserved:          b&headerReservedMask != 0,
		LocalMessageType:  b & localMesgNumMask,
	}, nil
}

func (rh RecordHeader) encode() byte {
	b := rh.LocalMessageType & localMesgNumMask
	if rh.Definition {
		b |= mesgDefinitionMask
	}
	if rh.DeveloperDataFlag {
		b |= devDataMask
	}
	if rh.Reserved {
		b |= headerReservedMask
	}
	return b
}

func definitionHeader(local uint8) RecordHeader {
	return RecordHeader{Definition: true, LocalMessageType: local & localMesgNumMask}
}

func dataHeader(local uint8) RecordHeader {
	return RecordHeader{LocalMessageType: local & localMesgNumMask}
}
