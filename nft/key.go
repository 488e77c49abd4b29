package nft

import (
	"encoding/binary"
	"fmt"
)

type KeyKind int

const (
	KeyCounter KeyKind = iota + 1
	KeyOwner
	KeyTitle
	KeyMedia
)

const (
	prefixTokenTotal = "NFT:TOTAL"
	prefixTokenOwner = "NFT:OWNER:"
	prefixTokenTitle = "NFT:TITLE:"
	prefixTokenMedia = "NFT:MEDIA:"
)

// Key addresses either the singleton counter or one field of one token.
type Key struct {
	Kind KeyKind
	Id   uint32
}

func CounterKey() Key        { return Key{Kind: KeyCounter} }
func OwnerKey(id uint32) Key { return Key{Kind: KeyOwner, Id: id} }
func TitleKey(id uint32) Key { return Key{Kind: KeyTitle, Id: id} }
func MediaKey(id uint32) Key { return Key{Kind: KeyMedia, Id: id} }

// Bytes encodes the key for the store. Field keys are a distinct prefix
// followed by the fixed width big endian id, so no two keys share bytes.
func (k Key) Bytes() []byte {
	var prefix string
	switch k.Kind {
	case KeyCounter:
		if k.Id != 0 {
			panic(k)
		}
		return []byte(prefixTokenTotal)
	case KeyOwner:
		prefix = prefixTokenOwner
	case KeyTitle:
		prefix = prefixTokenTitle
	case KeyMedia:
		prefix = prefixTokenMedia
	default:
		panic(k.Kind)
	}
	key := append([]byte(prefix), make([]byte, 4)...)
	binary.BigEndian.PutUint32(key[len(prefix):], k.Id)
	return key
}

func (k Key) String() string {
	switch k.Kind {
	case KeyCounter:
		return "TOTAL"
	case KeyOwner:
		return fmt.Sprintf("OWNER:%d", k.Id)
	case KeyTitle:
		return fmt.Sprintf("TITLE:%d", k.Id)
	case KeyMedia:
		return fmt.Sprintf("MEDIA:%d", k.Id)
	}
	return fmt.Sprintf("UNKNOWN(%d):%d", k.Kind, k.Id)
}

func encodeCounter(n uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, n)
	return buf
}

func decodeCounter(val []byte) (uint32, error) {
	if len(val) != 4 {
		return 0, fmt.Errorf("%w: counter value has %d bytes", ErrCorruptRecord, len(val))
	}
	return binary.BigEndian.Uint32(val), nil
}
