package interfaces

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
	Close() error
}
