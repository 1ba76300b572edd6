// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package composition

import (
	"regexp"
	"strings"
)

const (
	SectorTechnology    = "Information Technology"
	SectorFinancials    = "Financials"
	SectorHealthCare    = "Health Care"
	SectorDiscretionary = "Consumer Discretionary"
	SectorCommunication = "Communication Services"
	SectorIndustrials   = "Industrials"
	SectorStaples       = "Consumer Staples"
	SectorEnergy        = "Energy"
	SectorUtilities     = "Utilities"
	SectorRealEstate    = "Real Estate"
	SectorMaterials     = "Materials"
	SectorUnknown       = "Unknown"
)

type keyword struct {
	key    string
	sector string
}

// specialCases are checked first and match anywhere in the cleaned name
var specialCases = []keyword{
	{"PROCTER + GAMBLE", SectorStaples},
	{"PROCTER GAMBLE", SectorStaples},
	{"P G", SectorStaples},
	{"JOHNSON + JOHNSON", SectorHealthCare},
	{"J J", SectorHealthCare},
	{"AT+T", SectorCommunication},
	{"AT T", SectorCommunication},
	{"T MOBILE", SectorCommunication},
	{"S+P GLOBAL", SectorFinancials},
	{"S P GLOBAL", SectorFinancials},
	{"RTX", SectorIndustrials},
	{"INTL BUSINESS MACHINES", SectorTechnology},
	{"IBM", SectorTechnology},
	{"ADVANCED MICRO DEVICES", SectorTechnology},
	{"AMD", SectorTechnology},
	{"UBER TECHNOLOGIES", SectorDiscretionary},
	{"UBER", SectorDiscretionary},
}

// sectorKeywords are matched exactly first, then as substrings in order
var sectorKeywords = []keyword{
	{"APPLE", SectorTechnology},
	{"MICROSOFT", SectorTechnology},
	{"NVIDIA", SectorTechnology},
	{"BROADCOM", SectorTechnology},
	{"ADOBE", SectorTechnology},
	{"CISCO", SectorTechnology},
	{"SALESFORCE", SectorTechnology},
	{"INTEL", SectorTechnology},
	{"IBM", SectorTechnology},
	{"ORACLE", SectorTechnology},
	{"QUALCOMM", SectorTechnology},
	{"AMD", SectorTechnology},
	{"PAYPAL", SectorTechnology},
	{"INTUIT", SectorTechnology},

	{"BERKSHIRE", SectorFinancials},
	{"JPMORGAN", SectorFinancials},
	{"VISA", SectorFinancials},
	{"MASTERCARD", SectorFinancials},
	{"BANK OF AMERICA", SectorFinancials},
	{"WELLS FARGO", SectorFinancials},
	{"CITIGROUP", SectorFinancials},
	{"GOLDMAN SACHS", SectorFinancials},
	{"MORGAN STANLEY", SectorFinancials},
	{"BLACKROCK", SectorFinancials},
	{"AMERICAN EXPRESS", SectorFinancials},
	{"S&P GLOBAL", SectorFinancials},

	{"ELI LILLY", SectorHealthCare},
	{"UNITEDHEALTH", SectorHealthCare},
	{"JOHNSON & JOHNSON", SectorHealthCare},
	{"PFIZER", SectorHealthCare},
	{"MERCK", SectorHealthCare},
	{"ABBVIE", SectorHealthCare},
	{"THERMO FISHER", SectorHealthCare},
	{"ABBOTT", SectorHealthCare},
	{"AMGEN", SectorHealthCare},
	{"BRISTOL MYERS", SectorHealthCare},

	{"AMAZON", SectorDiscretionary},
	{"TESLA", SectorDiscretionary},
	{"HOME DEPOT", SectorDiscretionary},
	{"MCDONALD", SectorDiscretionary},
	{"NIKE", SectorDiscretionary},
	{"STARBUCKS", SectorDiscretionary},
	{"BOOKING", SectorDiscretionary},
	{"UBER", SectorDiscretionary},

	{"META", SectorCommunication},
	{"ALPHABET", SectorCommunication},
	{"GOOGLE", SectorCommunication},
	{"NETFLIX", SectorCommunication},
	{"COMCAST", SectorCommunication},
	{"DISNEY", SectorCommunication},
	{"VERIZON", SectorCommunication},
	{"AT&T", SectorCommunication},
	{"T-MOBILE", SectorCommunication},

	{"GENERAL ELECTRIC", SectorIndustrials},
	{"UNION PACIFIC", SectorIndustrials},
	{"BOEING", SectorIndustrials},
	{"HONEYWELL", SectorIndustrials},
	{"CATERPILLAR", SectorIndustrials},
	{"DEERE", SectorIndustrials},
	{"LOCKHEED MARTIN", SectorIndustrials},
	{"3M", SectorIndustrials},
	{"RAYTHEON", SectorIndustrials},
	{"RTX", SectorIndustrials},
	{"UPS", SectorIndustrials},
	{"FEDEX", SectorIndustrials},

	{"PROCTER & GAMBLE", SectorStaples},
	{"WALMART", SectorStaples},
	{"COCA COLA", SectorStaples},
	{"PEPSICO", SectorStaples},
	{"COSTCO", SectorStaples},
	{"PHILIP MORRIS", SectorStaples},
	{"MONDELEZ", SectorStaples},

	{"EXXON", SectorEnergy},
	{"CHEVRON", SectorEnergy},
	{"CONOCOPHILLIPS", SectorEnergy},
	{"SCHLUMBERGER", SectorEnergy},
	{"EOG RESOURCES", SectorEnergy},
	{"PIONEER", SectorEnergy},
	{"OCCIDENTAL", SectorEnergy},
	{"MARATHON", SectorEnergy},
	{"VALERO", SectorEnergy},
	{"PHILLIPS 66", SectorEnergy},

	{"NEXTERA", SectorUtilities},
	{"DUKE ENERGY", SectorUtilities},
	{"SOUTHERN", SectorUtilities},
	{"DOMINION", SectorUtilities},
	{"AMERICAN ELECTRIC", SectorUtilities},
	{"SEMPRA", SectorUtilities},
	{"EXELON", SectorUtilities},

	{"PROLOGIS", SectorRealEstate},
	{"AMERICAN TOWER", SectorRealEstate},
	{"CROWN CASTLE", SectorRealEstate},
	{"SIMON PROPERTY", SectorRealEstate},
	{"WELLTOWER", SectorRealEstate},
	{"PUBLIC STORAGE", SectorRealEstate},
	{"REALTY INCOME", SectorRealEstate},

	{"LINDE", SectorMaterials},
	{"AIR PRODUCTS", SectorMaterials},
	{"SHERWIN WILLIAMS", SectorMaterials},
	{"FREEPORT", SectorMaterials},
	{"DOW", SectorMaterials},
	{"DUPONT", SectorMaterials},
	{"NEWMONT", SectorMaterials},
	{"NUCOR", SectorMaterials},
}

// abbreviations match the raw name against tickers, or the cleaned name
// against an alternate spelling
var abbreviations = []struct {
	raw     []string
	cleaned []string
	sector  string
}{
	{[]string{"MSFT"}, []string{"MICROSOFT"}, SectorTechnology},
	{[]string{"AAPL"}, []string{"APPLE"}, SectorTechnology},
	{[]string{"AMZN"}, []string{"AMAZON"}, SectorDiscretionary},
	{[]string{"GOOGL", "GOOG"}, []string{"ALPHABET"}, SectorCommunication},
	{[]string{"FB"}, []string{"META", "FACEBOOK"}, SectorCommunication},
	{[]string{"JPM"}, []string{"JPMORGAN"}, SectorFinancials},
	{[]string{"JNJ"}, []string{"JOHNSON"}, SectorHealthCare},
}

var (
	suffixRegex  = regexp.MustCompile(`(?i)\bINC\b|\bCORP\b|\bCO\b|\bLTD\b|\bPLC\b|\bCLASS [A-Z]\b|\bCL [A-Z]\b|\bSHS\b|\bHOLDINGS\b|\bGROUP\b|\bTHE\b`)
	specialRegex = regexp.MustCompile(`[^\w\s&]`)
	spaceRegex   = regexp.MustCompile(`\s+`)
)

// CleanCompanyName strips corporate suffixes and punctuation and upper cases
// the result so names from different issuers compare equal
func CleanCompanyName(name string) string {
	name = strings.ReplaceAll(name, " + ", " & ")
	name = strings.ReplaceAll(name, "+", " ")
	name = suffixRegex.ReplaceAllString(name, "")
	name = specialRegex.ReplaceAllString(name, " ")
	name = spaceRegex.ReplaceAllString(name, " ")
	return strings.ToUpper(strings.TrimSpace(name))
}

// ClassifySector guesses the sector of a company from keywords in its name.
// SectorUnknown is returned when nothing matches.
func ClassifySector(company string) string {
	cleaned := CleanCompanyName(company)

	for _, kw := range specialCases {
		if strings.Contains(cleaned, kw.key) {
			return kw.sector
		}
	}

	for _, kw := range sectorKeywords {
		if cleaned == kw.key {
			return kw.sector
		}
	}

	for _, kw := range sectorKeywords {
		if strings.Contains(cleaned, kw.key) {
			return kw.sector
		}
	}

	for _, abbr := range abbreviations {
		for _, s := range abbr.raw {
			if strings.Contains(company, s) {
				return abbr.sector
			}
		}
		for _, s := range abbr.cleaned {
			if strings.Contains(cleaned, s) {
				return abbr.sector
			}
		}
	}

	return SectorUnknown
}

// knownSector is false for blank or placeholder sectors
func knownSector(sector string) bool {
	switch strings.TrimSpace(sector) {
	case "", "-", "--", SectorUnknown:
		return false
	default:
		return true
	}
}
