package app

import "strings"

// Verdict is the classification of a fingerprint against the reference tables.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictVulnerable
	VerdictGood
)

// JndiManager.class, hashes taken from the NCC Group modified-classes list
// (https://github.com/nccgroup/Cyber-Defence/blob/master/Intelligence/CVE-2021-44228/modified-classes/md5sum.txt)
var md5Bad = map[string]string{
	"04fdd701809d17465c17c7e603b1b202": "log4j 2.9.0 - 2.11.2",
	"21f055b62c15453f0d7970a9d994cab7": "log4j 2.13.0 - 2.13.3",
	"3bd9f41b89ce4fe8ccbf73e43195a5ce": "log4j 2.6 - 2.6.2",
	"415c13e7c8505fb056d540eac29b72fa": "log4j 2.7 - 2.8.1",
	"5824711d6c68162eb535cc4dbf7485d3": "log4j 2.12.0 - 2.12.1",
	"6b15f42c333ac39abacfeeeb18852a44": "log4j 2.1 - 2.3",
	"8b2260b1cce64144f6310876f94b1638": "log4j 2.4 - 2.5",
	"a193703904a3f18fb3c90a877eb5c8a7": "log4j 2.8.2",
	"f1d630c48928096a484e4b95ccb162a0": "log4j 2.14.0 - 2.14.1",
}

var md5Good = map[string]string{
	"5d253e53fa993e122ff012221aa49ec3": "log4j 2.15.0",
	// https://repo.maven.apache.org/maven2/org/apache/logging/log4j/log4j-core/2.16.0/log4j-core-2.16.0.jar
	"ba1cf8f81e7b31c709768561ba8ab558": "log4j 2.16.0",
}

// Catalog maps known JndiManager.class digests to version labels.
type Catalog struct {
	bad  map[string]string
	good map[string]string
}

func NewCatalog() *Catalog {
	c := &Catalog{
		bad:  map[string]string{},
		good: map[string]string{},
	}

	for sum, label := range md5Bad {
		c.bad[sum] = label
	}

	for sum, label := range md5Good {
		c.good[sum] = label
	}

	return c
}

// Allow adds a digest to the known-good table. Built-in vulnerable entries
// still take precedence.
func (c *Catalog) Allow(sum string, label string) {
	c.good[strings.ToLower(sum)] = label
}

func (c *Catalog) Classify(sum string) (Verdict, string) {
	if label, ok := c.bad[sum]; ok {
		return VerdictVulnerable, label
	}

	if label, ok := c.good[sum]; ok {
		return VerdictGood, label
	}

	return VerdictUnknown, ""
}
