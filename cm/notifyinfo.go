package cm

// These are the notify-class-specific argument structs each callback
// receives: each pre-callback gets an info struct carrying whatever the
// operation knows before it runs (object, complete name, index, ...);
// every post-callback gets the uniform {Object, Status} pair below.

// PostOperationInfo is the uniform post-callback payload every dispatcher
// hands to Invoke after the operation (or a pre-callback rejection)
// completes.
type PostOperationInfo struct {
	Object *KeyObject
	Status error
}

type PreCreateKeyInfo struct{ CompleteName string }
type PreOpenKeyInfo struct{ CompleteName string }
type PreDeleteKeyInfo struct{ Object *KeyObject }
type PreEnumerateKeyInfo struct {
	Object *KeyObject
	Index  uint32
}
type PreEnumerateValueKeyInfo struct {
	Object *KeyObject
	Index  uint32
}
type PreQueryKeyInfo struct{ Object *KeyObject }
type PreQueryValueKeyInfo struct {
	Object    *KeyObject
	ValueName string
}
type PreQueryMultipleValueKeyInfo struct{ Object *KeyObject }
type PreSetValueKeyInfo struct {
	Object    *KeyObject
	ValueName string
}
type PreDeleteValueKeyInfo struct {
	Object    *KeyObject
	ValueName string
}
type PreSetInformationKeyInfo struct{ Object *KeyObject }
type PreFlushKeyInfo struct{ Object *KeyObject }
type PreLoadKeyInfo struct{ TargetPath string }
