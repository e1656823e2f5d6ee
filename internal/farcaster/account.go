package farcaster

import (
	"crypto/ecdsa"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// DeveloperAccount is the custody account of the requesting app. Its key signs
// every key request on behalf of the app FID.
type DeveloperAccount struct {
	address common.Address
	key     *ecdsa.PrivateKey
}

// NewDeveloperAccount derives the account at derivationPath from a BIP-39 mnemonic,
// the same way wallets derive their default Ethereum account.
func NewDeveloperAccount(mnemonic string, derivationPath string) (*DeveloperAccount, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if mnemonic == "" || !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	path, err := accounts.ParseDerivationPath(derivationPath)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid derivation path %q", derivationPath)
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}

	extKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	for _, index := range path {
		extKey, err = extKey.Derive(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key %d", index)
		}
	}

	privKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to extract private key")
	}

	key := privKey.ToECDSA()

	return &DeveloperAccount{
		address: crypto.PubkeyToAddress(key.PublicKey),
		key:     key,
	}, nil
}

// Address returns the checksummed account address, i.e. the requestSigner.
func (a *DeveloperAccount) Address() common.Address {
	return a.address
}

// SignHash signs a 32 byte digest and returns the 65 byte [R || S || V] signature
// with V in {27, 28}, as expected by EVM signature verifiers.
func (a *DeveloperAccount) SignHash(hash []byte) ([]byte, error) {
	sig, err := crypto.Sign(hash, a.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign digest")
	}

	sig[crypto.RecoveryIDOffset] += 27

	return sig, nil
}
