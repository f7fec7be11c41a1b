package store

import "github.com/iov-one/sharepool"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = sharepool.ReadOnlyKVStore
type SetDeleter = sharepool.SetDeleter
type KVStore = sharepool.KVStore
type Batch = sharepool.Batch
type Iterator = sharepool.Iterator
type CacheableKVStore = sharepool.CacheableKVStore
type KVCacheWrap = sharepool.KVCacheWrap
type CommitKVStore = sharepool.CommitKVStore
type CommitID = sharepool.CommitID
type Model = sharepool.Model
