package deal

// Canned deal narratives used by tests and the demo transcriber.

const ExampleMultifamilyAustin = `Hey, I just got off the phone with Marcus from JLL. He's got a deal in Austin, Texas
that might be interesting for us. It's a 148-unit multifamily property, Class B plus, built in 2008.
The property is currently 92% occupied and generating about $1.2 million in NOI.

They're asking $18.5 million, which puts it at a 6.5% cap rate. Location is solid - it's in the
Domain area, close to Apple's campus and a bunch of other tech companies. Units are mostly
two-bedroom, two-bath layouts, averaging around 950 square feet.

The seller is a regional operator looking to exit and redeploy capital. Marcus mentioned there's
some deferred maintenance, maybe $400K to $500K to get it to where we'd want it. Rents are
slightly below market - he thinks there's opportunity to push another $75 to $100 per unit.

They're looking for offers by next Friday. Marcus's email is marcus.thompson at jll.com. He said
he can get us the full OM by tomorrow if we're interested. Let me know if you want me to dig deeper.`

const ExampleIndustrialPhoenix = `Following up on our call - the Phoenix industrial deal looks promising. It's a
125,000 SF warehouse facility in the West Valley submarket, built in 2015. Single tenant,
national credit (Amazon), on a 10-year triple-net lease with 5% bumps every 3 years.

Current rent is $8.50/SF, which is slightly below market. NOI is running around $950K annually.
Seller is asking $14.8M - that's a 6.4% cap rate. The property is 100% occupied with 7 years
remaining on the lease.

Location is excellent for last-mile distribution - right off the 10 freeway with easy access to
downtown Phoenix and Scottsdale. The broker, Jennifer Kim from CBRE (jennifer.kim at cbre.com),
says there's significant interest and they're expecting multiple offers.`

const ExampleOfficeMiami = `Got a cold call from a broker at Cushman & Wakefield about an office building in
Miami, Florida. It's a 75,000 SF Class A office in Brickell, built in 2019. The asking price is
$32 million.

Current occupancy is only 68%, which is a bit concerning. They're showing an NOI of $1.5M, but
that's pro forma based on stabilized occupancy at 95%. Actual in-place NOI is probably closer to
$1.1M given the vacancy.

At $32M on $1.5M NOI, they're pitching a 4.7% cap rate, but on actual NOI it's more like 3.4%.
That's pretty aggressive for office right now, especially with the vacancies.`

const ExampleRetailDallas = `Quick summary from today's tour of the Dallas retail center. It's a neighborhood
shopping center in Plano, Texas - about 42,000 square feet anchored by a Kroger grocery store.

The center is 95% occupied. Kroger has 15 years left on their lease with 2% annual increases.
Asking price is $8.7 million on an NOI of $615,000, so we're looking at about a 7.1% cap rate.
The broker is Sarah Chen from Newmark (sarah.chen at newmark.com). Built in 2005, so
it's in good condition.`

const ExampleMixedUseDenver = `Following up on the Denver mixed-use opportunity. This is a really interesting
asset - ground floor retail (8,500 SF) with 24 luxury apartments above. Located in the LoHi
neighborhood, which is one of Denver's hottest submarkets.

Retail is 100% leased to two tenants: a popular local restaurant and a boutique fitness studio.
The apartments are 96% occupied, mostly young professionals. Built in 2017, so it's almost new.`
