package analysis

// SampleListing is a known scam posting used by the smoke-test endpoint.
const SampleListing = `
    URGENT HIRING! Data Entry Specialist needed ASAP!
    
    Earn $8,500 - $12,000 per month working from home!
    No experience needed! Simple copy and paste work.
    
    Requirements:
    - Must pay $99 background check fee
    - Must have valid checking account
    
    Apply now: hiring.manager@gmail.com
    `
