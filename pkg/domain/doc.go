/*
Package domain contains the shared vocabulary of the rig.

It defines the wire forms exchanged between workers, the axis state, the
fleet roles and outcomes, and the error tiers every worker exits with. The
package is free of I/O.

# Key Entities

  - VelocityCommand: delta instruction "0", "1" or "2" sent to an axis.
  - AxisState and Bounds: position, velocity and mode of one axis.
  - Telegram: combined "x;z" position produced by the world simulator.
  - ControlSignal: STOP or RESET addressed to an axis controller.
  - Role, ProcessHandle and Report: the supervised fleet and how it ended.
  - ExitStatus and FailureTier: why a worker exited.
*/
package domain
