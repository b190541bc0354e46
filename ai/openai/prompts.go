package openai

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "claimant_name": {"type": ["string", "null"]},
    "contact_phone": {"type": ["string", "null"]},
    "policy_number": {"type": ["string", "null"]},
    "incident_datetime": {"type": ["string", "null"]},
    "incident_location": {"type": ["string", "null"]},
    "incident_description": {"type": "string"},
    "claimed_amount": {"type": ["number", "null"]},
    "detected_entities": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": ["incident_description", "detected_entities"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `You are an expert claims intake assistant. Extract structured fields from the given claim transcript and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Every extracted value must appear verbatim in the transcript. Never invent names, numbers, or places.
- Use null for any field the transcript does not state. Null is always preferable to a guess.
- incident_description is a short factual summary of what happened, in the transcript's own words where possible.
- claimed_amount is a plain number with no currency symbols.
- detected_entities lists the people, places and objects mentioned in the transcript.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const classificationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "label": {"type": "string", "enum": ["valid", "invalid", "fraudulent"]},
    "score": {"type": "number", "minimum": 0, "maximum": 1},
    "rationale": {"type": "string"},
    "policy_flags": {"type": "array", "items": {"type": "string"}},
    "suggested_next_steps": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["label", "score", "rationale"],
  "additionalProperties": false
}`

const classificationPromptTemplate = `You are a claims adjudication assistant. Assess the claim below and return a verdict as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- label is exactly one of "valid", "invalid" or "fraudulent".
- score is your confidence in the label, from 0.0 (no confidence) to 1.0 (certain).
- rationale is one or two sentences explaining the verdict in plain language.
- policy_flags lists policy concerns found in the claim, or an empty array.
- suggested_next_steps lists concrete follow-up actions for an adjudicator.
- Base the verdict only on the supplied data and transcript. Do not invent facts.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`
