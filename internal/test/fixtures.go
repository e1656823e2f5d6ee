package test

const (
	// TestMnemonic is the well known development mnemonic, never fund it.
	TestMnemonic = "test test test test test test test test test test test junk"
	// TestDeveloperAddress is the address TestMnemonic derives to at the default path.
	TestDeveloperAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	TestDeveloperFID     = "1234"
)
