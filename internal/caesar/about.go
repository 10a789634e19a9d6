package caesar

// About is the short explanation shown next to the tools.
const About = `The Caesar cipher replaces each letter with the letter a fixed number of
positions further down the alphabet. With a shift of 3, A becomes D, B becomes
E, and the alphabet wraps around so X, Y and Z become A, B and C. Decrypting
shifts back by the same amount.

Why it is insecure:
  - there are only 25 possible keys
  - trying all of them takes a fraction of a second
  - letter frequencies survive encryption, so frequency analysis finds the key
  - one known plaintext/ciphertext pair reveals the key

Use an established library implementing a modern primitive instead: AES or
ChaCha20 for symmetric encryption, RSA or elliptic curves for public keys.
`
