package xbin

const (
	tag1Shift = 62
	tag2Shift = 60
	keyMask   = uint64(1)<<MaxKeyBits - 1
)

// TagKey packs tag1 into bits 62-63 and tag2 into bits 60-61 of key, which
// must be untagged. Both tags must be in [0, 3].
func TagKey(key uint64, tag1, tag2 uint8) (uint64, error) {
	if tag1 > 3 || tag2 > 3 {
		return 0, ErrInvalidTag
	}
	return key&keyMask | uint64(tag1)<<tag1Shift | uint64(tag2)<<tag2Shift, nil
}

// SplitTags returns the untagged key and both tags of key.
func SplitTags(key uint64) (untagged uint64, tag1, tag2 uint8) {
	return key & keyMask, uint8(key >> tag1Shift & 3), uint8(key >> tag2Shift & 3)
}

// UntagKey clears the tag bits of key.
func UntagKey(key uint64) uint64 {
	return key & keyMask
}
