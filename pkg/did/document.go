package did

import "github.com/mr-tron/base58"

const (
	contextDIDv1       = "https://www.w3.org/ns/did/v1"
	contextEd25519     = "https://w3id.org/security/suites/ed25519-2018/v1"
	verificationKeyRef = "#owner"
)

type Document struct {
	Context            []string             `json:"@context"`
	ID                 string               `json:"id"`
	VerificationMethod []VerificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication"`
	AssertionMethod    []string             `json:"assertionMethod"`
}

type VerificationMethod struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Controller      string `json:"controller"`
	PublicKeyBase58 string `json:"publicKeyBase58"`
}

// NewDocument builds the self-controlled document of d with its public key as
// the single verification method.
func NewDocument(d DID) Document {
	id := d.String()
	keyID := id + verificationKeyRef
	return Document{
		Context: []string{contextDIDv1, contextEd25519},
		ID:      id,
		VerificationMethod: []VerificationMethod{{
			ID:              keyID,
			Type:            "Ed25519VerificationKey2018",
			Controller:      id,
			PublicKeyBase58: base58.Encode(d.publicKey[:]),
		}},
		Authentication:  []string{keyID},
		AssertionMethod: []string{keyID},
	}
}
