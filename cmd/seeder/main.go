// Copyright 2025 Avallon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Command seeder writes a starter corpus of labeled past claims, ready to be
// embedded with claimlens build-index.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/avallon/claimlens/core"
	"github.com/avallon/claimlens/corpus"
)

var pastClaims = []core.CaseRecord{
	{
		ID:    "alm-2024-0117",
		Label: core.LabelValid,
		FullText: "Caller reports being rear-ended at a red light on Al-Farabi Avenue in " +
			"Almaty around 6 pm. The other driver admitted fault at the scene and a " +
			"police report was filed. Rear bumper and trunk lid are damaged, nobody " +
			"was injured. Photos and the other driver's insurance details are attached.",
	},
	{
		ID:    "alm-2024-0242",
		Label: core.LabelInvalid,
		FullText: "Policyholder claims water damage to the kitchen and living room from a " +
			"burst pipe. Inspection found the pipe corroded through years ago and the " +
			"damage clearly predates the policy start date by several months. The " +
			"policy excludes pre-existing damage.",
	},
	{
		ID:    "alm-2024-0338",
		Label: core.LabelFraudulent,
		FullText: "Two vehicles collided at low speed in an empty parking lot at 2 am with " +
			"no witnesses. Both drivers know each other and gave identical word-for-word " +
			"statements. Damage on the claimed vehicle does not match the described " +
			"impact angle, and the same pair filed a near-identical claim last year.",
	},
	{
		ID:    "alm-2024-0401",
		Label: core.LabelValid,
		FullText: "Hail storm on the night of April 12 damaged the roof of the insured " +
			"house in the Medeu district. Several tiles cracked and the attic shows " +
			"fresh water staining. A roofer's estimate and weather service confirmation " +
			"of the storm are provided.",
	},
	{
		ID:    "alm-2024-0455",
		Label: core.LabelInvalid,
		FullText: "Claimant seeks compensation for a phone stolen from an unlocked car. " +
			"The policy covers theft only when there are signs of forced entry; the " +
			"claimant confirmed the car was left unlocked with the windows down.",
	},
	{
		ID:    "alm-2024-0512",
		Label: core.LabelFraudulent,
		FullText: "Claim for a stolen laptop reported three days after the alleged burglary. " +
			"The submitted purchase receipt is for a different serial number, and the " +
			"claimed model was never sold in the country. Neighbors report no signs of " +
			"a break-in on the claimed date.",
	},
	{
		ID:    "alm-2024-0583",
		Label: core.LabelValid,
		FullText: "Minor collision while reversing out of a supermarket parking space on " +
			"Abay Avenue. The policyholder accepts partial fault, damage is limited to " +
			"a scratched rear quarter panel and a broken taillight. The other party's " +
			"account matches and both cars were inspected the same day.",
	},
	{
		ID:    "alm-2024-0629",
		Label: core.LabelValid,
		FullText: "Apartment fire caused by a faulty washing machine while the insured was " +
			"at work. Fire service report confirms an electrical fault as the origin. " +
			"Damage is limited to the bathroom and hallway; the claim covers repairs " +
			"and replacement of the appliance.",
	},
}

func main() {
	output := flag.String("o", "past_claims.json", "output path for the corpus file")
	flag.Parse()

	// Validate through the corpus loader so the seeded file is guaranteed
	// to load.
	if _, err := corpus.New(pastClaims); err != nil {
		slog.Error("seed corpus is invalid", "err", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(pastClaims, "", "  ")
	if err != nil {
		slog.Error("failed to encode corpus", "err", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		slog.Error("failed to write corpus file", "err", err)
		os.Exit(1)
	}

	slog.Info("seed corpus written", "path", *output, "cases", len(pastClaims))
}
