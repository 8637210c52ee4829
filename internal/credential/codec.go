// Package credential encodes and decodes the signed token that represents
// an approved exeat. The token is a compact HS256 JWS; the signature is the
// integrity tag, so any tamper to any field invalidates it. Encoding is
// deterministic: one logical credential always serializes to the same bytes
// (the jti is the exeat ID, never a random nonce).
package credential

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"unipass/pkg/domain"
	dErrors "unipass/pkg/domain-errors"
)

// SchemaVersion is bumped when the claim layout changes. Decode rejects
// every version it does not know.
const SchemaVersion = 1

// Subject is the student identity a credential is bound to.
type Subject struct {
	StudentID    domain.StudentID
	Name         string
	MatricNumber string
}

// Window is the permitted travel window.
type Window struct {
	DepartureAt time.Time
	ReturnAt    time.Time
}

// Claims is the credential payload. Expiry is deliberately not a registered
// exp claim: the gate verifier owns all timing judgment, and decode must not
// reject a token merely because the return deadline passed.
type Claims struct {
	SchemaVersion int    `json:"schema_version"`
	ExeatID       string `json:"exeat_id"`
	SubjectID     string `json:"subject_id"`
	SubjectName   string `json:"subject_name"`
	MatricNumber  string `json:"matric_number"`
	DepartureAt   int64  `json:"departure_at"`
	ReturnAt      int64  `json:"return_at"`
	jwt.RegisteredClaims
}

// Credential is the decoded, verified token.
type Credential struct {
	ExeatID  domain.ExeatID
	Subject  Subject
	Window   Window
	IssuedAt time.Time
	// JTI is the token identifier used by the revocation list. Equal to the
	// exeat ID by construction.
	JTI string
}

// Codec signs and verifies credentials. The signing key is immutable
// process-wide state loaded once at startup.
type Codec struct {
	signingKey []byte
	issuer     string
}

func NewCodec(signingKey, issuer string) *Codec {
	return &Codec{signingKey: []byte(signingKey), issuer: issuer}
}

// Issue signs a credential for the given exeat. Deterministic: calling it
// twice with the same arguments yields byte-identical tokens.
func (c *Codec) Issue(exeatID domain.ExeatID, subject Subject, window Window, issuedAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SchemaVersion: SchemaVersion,
		ExeatID:       exeatID.String(),
		SubjectID:     subject.StudentID.String(),
		SubjectName:   subject.Name,
		MatricNumber:  subject.MatricNumber,
		DepartureAt:   window.DepartureAt.Unix(),
		ReturnAt:      window.ReturnAt.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   c.issuer,
			IssuedAt: jwt.NewNumericDate(issuedAt.Truncate(time.Second)),
			ID:       exeatID.String(),
		},
	})
	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode verifies the signature and structural validity of a raw token.
// It returns CodeMalformedCredential for a wrong schema version, a missing
// field, or a broken integrity tag. It never rejects a well-formed token on
// semantic grounds (status, timing); that judgment belongs to the gate
// verifier.
func (c *Codec) Decode(raw string) (*Credential, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return nil, dErrors.Wrap(dErrors.CodeMalformedCredential, "token verification failed", err)
	}

	if claims.SchemaVersion != SchemaVersion {
		return nil, dErrors.New(dErrors.CodeMalformedCredential, "unsupported schema version")
	}
	exeatID, err := domain.ParseExeatID(claims.ExeatID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeMalformedCredential, "missing or invalid exeat id", err)
	}
	subjectID, err := domain.ParseStudentID(claims.SubjectID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeMalformedCredential, "missing or invalid subject id", err)
	}
	if claims.DepartureAt == 0 || claims.ReturnAt == 0 {
		return nil, dErrors.New(dErrors.CodeMalformedCredential, "missing travel window")
	}
	if claims.IssuedAt == nil {
		return nil, dErrors.New(dErrors.CodeMalformedCredential, "missing issuance timestamp")
	}

	return &Credential{
		ExeatID: exeatID,
		Subject: Subject{
			StudentID:    subjectID,
			Name:         claims.SubjectName,
			MatricNumber: claims.MatricNumber,
		},
		Window: Window{
			DepartureAt: time.Unix(claims.DepartureAt, 0).UTC(),
			ReturnAt:    time.Unix(claims.ReturnAt, 0).UTC(),
		},
		IssuedAt: claims.IssuedAt.Time,
		JTI:      claims.ID,
	}, nil
}
