package cm

import "github.com/cmkernel/cmreg/ntstatus"

// The following syscalls round out the configuration manager's surface
// but are out of scope for this module's implemented semantics (no notify
// class, no backing hive operation). Each returns NOT_IMPLEMENTED
// unconditionally rather than silently no-opping, so a caller can tell
// "not wired" apart from "ran and did nothing".

func (rc *RegistryContext) NotifyChangeKey(ko *KeyObject) error           { return ntstatus.NotImplemented }
func (rc *RegistryContext) NotifyChangeMultipleKeys(ko *KeyObject) error  { return ntstatus.NotImplemented }
func (rc *RegistryContext) ReplaceKey(ko *KeyObject) error                { return ntstatus.NotImplemented }
func (rc *RegistryContext) RestoreKey(ko *KeyObject) error                { return ntstatus.NotImplemented }
func (rc *RegistryContext) SaveKeyEx(ko *KeyObject) error                 { return ntstatus.NotImplemented }
func (rc *RegistryContext) CompactKeys() error                           { return ntstatus.NotImplemented }
func (rc *RegistryContext) CompressKey(ko *KeyObject) error               { return ntstatus.NotImplemented }
func (rc *RegistryContext) LoadKeyEx(ko *KeyObject) error                 { return ntstatus.NotImplemented }
func (rc *RegistryContext) LockProductActivationKeys() error             { return ntstatus.NotImplemented }
func (rc *RegistryContext) LockRegistryKey(ko *KeyObject) error           { return ntstatus.NotImplemented }
func (rc *RegistryContext) QueryOpenSubKeys(ko *KeyObject) error          { return ntstatus.NotImplemented }
func (rc *RegistryContext) QueryOpenSubKeysEx(ko *KeyObject) error        { return ntstatus.NotImplemented }
func (rc *RegistryContext) SaveMergedKeys(a, b *KeyObject) error          { return ntstatus.NotImplemented }
func (rc *RegistryContext) UnloadKey2(ko *KeyObject) error                { return ntstatus.NotImplemented }
func (rc *RegistryContext) UnloadKeyEx(ko *KeyObject) error               { return ntstatus.NotImplemented }
