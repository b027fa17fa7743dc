package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	version = 1

	// StandardScryptN and StandardScryptP are the scrypt parameters for key
	// files written by interactive logins.
	StandardScryptN = 1 << 18
	StandardScryptP = 1

	// LightScryptN and LightScryptP trade strength for speed.
	LightScryptN = 1 << 12
	LightScryptP = 6

	scryptR     = 8
	scryptDKLen = 32
)

var ErrDecrypt = errors.New("could not decrypt key with given passphrase")

// keyJSON is the on-disk form of a key. The secret is the wallet mnemonic.
type keyJSON struct {
	Address string     `json:"address"`
	Crypto  cryptoJSON `json:"crypto"`
	Id      string     `json:"id"`
	Version int        `json:"version"`
}

type cryptoJSON struct {
	Cipher     string    `json:"cipher"`
	CipherText string    `json:"ciphertext"`
	Nonce      string    `json:"nonce"`
	KDF        string    `json:"kdf"`
	KDFParams  kdfParams `json:"kdfparams"`
}

type kdfParams struct {
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
}

// Key is a decrypted key file.
type Key struct {
	Id       uuid.UUID
	Address  string
	Mnemonic string
}

func encryptKey(key *Key, auth string, scryptN, scryptP int) (*keyJSON, error) {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	derived, err := scrypt.Key([]byte(auth), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}
	var (
		secret [32]byte
		nonce  [24]byte
	)
	copy(secret[:], derived)
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	sealed := secretbox.Seal(nil, []byte(key.Mnemonic), &nonce, &secret)

	return &keyJSON{
		Address: key.Address,
		Crypto: cryptoJSON{
			Cipher:     "xsalsa20-poly1305",
			CipherText: hex.EncodeToString(sealed),
			Nonce:      hex.EncodeToString(nonce[:]),
			KDF:        "scrypt",
			KDFParams: kdfParams{
				N:     scryptN,
				R:     scryptR,
				P:     scryptP,
				DKLen: scryptDKLen,
				Salt:  hex.EncodeToString(salt),
			},
		},
		Id:      key.Id.String(),
		Version: version,
	}, nil
}

func decryptKey(k *keyJSON, auth string) (*Key, error) {
	if k.Version != version {
		return nil, fmt.Errorf("version not supported: %v", k.Version)
	}
	if k.Crypto.KDF != "scrypt" {
		return nil, fmt.Errorf("kdf not supported: %v", k.Crypto.KDF)
	}
	id, err := uuid.Parse(k.Id)
	if err != nil {
		return nil, err
	}
	salt, err := hex.DecodeString(k.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, err
	}
	sealed, err := hex.DecodeString(k.Crypto.CipherText)
	if err != nil {
		return nil, err
	}
	nonceBytes, err := hex.DecodeString(k.Crypto.Nonce)
	if err != nil {
		return nil, err
	}
	if len(nonceBytes) != 24 {
		return nil, errors.New("invalid nonce length")
	}
	p := k.Crypto.KDFParams
	derived, err := scrypt.Key([]byte(auth), salt, p.N, p.R, p.P, p.DKLen)
	if err != nil {
		return nil, err
	}
	var (
		secret [32]byte
		nonce  [24]byte
	)
	copy(secret[:], derived)
	copy(nonce[:], nonceBytes)
	plain, ok := secretbox.Open(nil, sealed, &nonce, &secret)
	if !ok {
		return nil, ErrDecrypt
	}
	return &Key{Id: id, Address: k.Address, Mnemonic: string(plain)}, nil
}
