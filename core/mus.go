package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted domain types. The layouts are small and
// stable, so they are written directly against the mus-go primitives instead
// of being generated.

var (
	// IDMUS serializes IDs.
	IDMUS = idMUS{}
	// ClaimMUS serializes Claims.
	ClaimMUS = claimMUS{}
	// SimilarityResultMUS serializes SimilarityResults.
	SimilarityResultMUS = similarityResultMUS{}
)

var (
	stringSliceMUS = ord.NewSliceSer[string](ord.String)
	similarListMUS = ord.NewSliceSer[SimilarityResult](SimilarityResultMUS)
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type similarityResultMUS struct{}

func (similarityResultMUS) Marshal(r SimilarityResult, bs []byte) (n int) {
	n = ord.String.Marshal(r.CaseID, bs)
	n += ord.String.Marshal(string(r.Label), bs[n:])
	n += ord.String.Marshal(r.Preview, bs[n:])
	n += varint.Float64.Marshal(r.Similarity, bs[n:])
	return n
}

func (similarityResultMUS) Unmarshal(bs []byte) (r SimilarityResult, n int, err error) {
	var n1 int
	if r.CaseID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	var label string
	if label, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	r.Label = Label(label)
	n += n1
	if r.Preview, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	r.Similarity, n1, err = varint.Float64.Unmarshal(bs[n:])
	return r, n + n1, err
}

func (similarityResultMUS) Size(r SimilarityResult) (size int) {
	size = ord.String.Size(r.CaseID)
	size += ord.String.Size(string(r.Label))
	size += ord.String.Size(r.Preview)
	size += varint.Float64.Size(r.Similarity)
	return size
}

func (s similarityResultMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type extractedFieldsMUS struct{}

func (extractedFieldsMUS) Marshal(f ExtractedFields, bs []byte) (n int) {
	n = ord.String.Marshal(f.ClaimantName, bs)
	n += ord.String.Marshal(f.ContactPhone, bs[n:])
	n += ord.String.Marshal(f.PolicyNumber, bs[n:])
	n += ord.String.Marshal(f.IncidentDatetime, bs[n:])
	n += ord.String.Marshal(f.IncidentLocation, bs[n:])
	n += ord.String.Marshal(f.IncidentDescription, bs[n:])
	n += varint.Float64.Marshal(f.ClaimedAmount, bs[n:])
	n += stringSliceMUS.Marshal(f.DetectedEntities, bs[n:])
	return n
}

func (extractedFieldsMUS) Unmarshal(bs []byte) (f ExtractedFields, n int, err error) {
	var n1 int
	fields := []*string{
		&f.ClaimantName, &f.ContactPhone, &f.PolicyNumber,
		&f.IncidentDatetime, &f.IncidentLocation, &f.IncidentDescription,
	}
	for _, field := range fields {
		if *field, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return f, n + n1, err
		}
		n += n1
	}
	if f.ClaimedAmount, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	f.DetectedEntities, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	return f, n + n1, err
}

func (extractedFieldsMUS) Size(f ExtractedFields) (size int) {
	size = ord.String.Size(f.ClaimantName)
	size += ord.String.Size(f.ContactPhone)
	size += ord.String.Size(f.PolicyNumber)
	size += ord.String.Size(f.IncidentDatetime)
	size += ord.String.Size(f.IncidentLocation)
	size += ord.String.Size(f.IncidentDescription)
	size += varint.Float64.Size(f.ClaimedAmount)
	size += stringSliceMUS.Size(f.DetectedEntities)
	return size
}

func (e extractedFieldsMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = e.Unmarshal(bs)
	return n, err
}

type classificationMUS struct{}

func (classificationMUS) Marshal(c Classification, bs []byte) (n int) {
	n = ord.String.Marshal(string(c.Label), bs)
	n += varint.Float64.Marshal(c.Score, bs[n:])
	n += ord.String.Marshal(c.Rationale, bs[n:])
	n += stringSliceMUS.Marshal(c.PolicyFlags, bs[n:])
	n += stringSliceMUS.Marshal(c.NextSteps, bs[n:])
	return n
}

func (classificationMUS) Unmarshal(bs []byte) (c Classification, n int, err error) {
	var n1 int
	var label string
	if label, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	c.Label = Label(label)
	if c.Score, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Rationale, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.PolicyFlags, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	c.NextSteps, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	return c, n + n1, err
}

func (classificationMUS) Size(c Classification) (size int) {
	size = ord.String.Size(string(c.Label))
	size += varint.Float64.Size(c.Score)
	size += ord.String.Size(c.Rationale)
	size += stringSliceMUS.Size(c.PolicyFlags)
	size += stringSliceMUS.Size(c.NextSteps)
	return size
}

func (c classificationMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = c.Unmarshal(bs)
	return n, err
}

type claimMUS struct{}

var (
	extractedMUS      = extractedFieldsMUS{}
	classificationSer = classificationMUS{}
)

func (claimMUS) Marshal(c Claim, bs []byte) (n int) {
	n = IDMUS.Marshal(c.Id, bs)
	n += ord.String.Marshal(c.Transcript, bs[n:])
	n += extractedMUS.Marshal(c.Extracted, bs[n:])
	n += classificationSer.Marshal(c.Classification, bs[n:])
	n += similarListMUS.Marshal(c.Similar, bs[n:])
	n += ord.String.Marshal(string(c.Status), bs[n:])
	n += varint.Int64.Marshal(c.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(c.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (claimMUS) Unmarshal(bs []byte) (c Claim, n int, err error) {
	var n1 int
	if c.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if c.Transcript, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Extracted, n1, err = extractedMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Classification, n1, err = classificationSer.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Similar, n1, err = similarListMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	var status string
	if status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	c.Status = ClaimStatus(status)
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	c.CreatedAt = time.UnixMicro(micros).UTC()
	n += n1
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	c.UpdatedAt = time.UnixMicro(micros).UTC()
	return c, n + n1, nil
}

func (claimMUS) Size(c Claim) (size int) {
	size = IDMUS.Size(c.Id)
	size += ord.String.Size(c.Transcript)
	size += extractedMUS.Size(c.Extracted)
	size += classificationSer.Size(c.Classification)
	size += similarListMUS.Size(c.Similar)
	size += ord.String.Size(string(c.Status))
	size += varint.Int64.Size(c.CreatedAt.UnixMicro())
	size += varint.Int64.Size(c.UpdatedAt.UnixMicro())
	return size
}

func (s claimMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
