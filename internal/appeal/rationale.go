// Package appeal holds the rationale and formatting stages of appeal letter
// generation. The draft stage lives with the provider chain in the service
// layer.
package appeal

import "claimequity/internal/domain"

// rationales are the regulatory justification paragraphs appended after the
// draft, by claim category.
var rationales = map[domain.ClaimCategory][]string{
	domain.CategoryMedicalNecessity: {
		"Under the Affordable Care Act internal appeals rules (45 CFR 147.136), I am entitled to a full and fair review of this adverse benefit determination, including the specific clinical criteria used to conclude the service was not medically necessary.",
		"My treating provider has determined this care is medically necessary under generally accepted standards of medical practice. I request that the review be conducted by a clinical peer with appropriate expertise.",
	},
	domain.CategoryPriorAuthorization: {
		"The ERISA claims procedure regulation (29 CFR 2560.503-1) requires that any denial identify the specific plan provision relied upon. A missing or delayed prior authorization is an administrative matter and does not by itself establish that the service was not covered.",
		"I request retroactive authorization, or a review of whether the authorization requirement was communicated and applied consistently with the plan documents.",
	},
	domain.CategoryOutOfNetwork: {
		"Where no in-network provider was reasonably available, or the care was emergent, the plan should process this claim at the in-network benefit level. The No Surprises Act protections may also apply to emergency and certain ancillary services.",
		"Please provide the network adequacy information relied upon in making this determination.",
	},
	domain.CategoryExperimental: {
		"I ask that the plan identify the specific evidence and criteria used to classify this treatment as experimental or investigational, as required for a full and fair review under 45 CFR 147.136.",
		"Peer-reviewed literature and the treating provider's clinical judgment support the use of this treatment for my condition. I request external review by an independent review organization if this denial is upheld.",
	},
	domain.CategoryCodingError: {
		"This denial appears to result from a coding or billing discrepancy rather than a coverage determination. I request that the claim be reprocessed once the provider's corrected codes are received.",
		"Under 29 CFR 2560.503-1 the plan must describe any additional information needed to perfect the claim and explain why it is necessary.",
	},
	domain.CategoryGeneral: {
		"Under 45 CFR 147.136 and 29 CFR 2560.503-1, I am entitled to a full and fair review of this determination, to receive copies of all documents relevant to my claim free of charge, and to an explanation of the specific reasons for the denial.",
	},
}

// Rationale returns the justification paragraphs for category, falling back
// to the general set.
func Rationale(category domain.ClaimCategory) []string {
	if paras, ok := rationales[category]; ok {
		return paras
	}
	return rationales[domain.CategoryGeneral]
}
